//
// util.go
//
// Copyright (c) 2023 Markku Rossi
//
// All rights reserved.

package ot

import (
	"encoding/binary"
	"math/big"
)

// bo is the byte order used for all wire-format integers in this package.
var bo = binary.BigEndian

// SendString sends a length-prefixed string over io.
func SendString(io IO, s string) error {
	return io.SendData([]byte(s))
}

// ReceiveString receives a length-prefixed string from io.
func ReceiveString(io IO) (string, error) {
	data, err := io.ReceiveData()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SendBigInt sends a length-prefixed big.Int over io.
func SendBigInt(io IO, v *big.Int) error {
	return io.SendData(v.Bytes())
}

// ReceiveBigInt receives a big.Int from io.
func ReceiveBigInt(io IO) (*big.Int, error) {
	data, err := io.ReceiveData()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(data), nil
}
