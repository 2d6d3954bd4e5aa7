//
// co.go
//
// Copyright (c) 2019-2023 Markku Rossi
//
// All rights reserved.
//
// Chou Orlandi OT - The Simplest Protocol for Oblivious Transfer.
//  - https://eprint.iacr.org/2015/267.pdf

package ot

import (
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"hash"
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/markkurossi/fancygarble/block"
)

var _ OT = &ChouOrlandi{}

// ChouOrlandi implements the Chou-Orlandi semi-honest base OT as the OT
// interface, over the P-256 elliptic curve.
type ChouOrlandi struct {
	curve  elliptic.Curve
	digest []byte
	io     IO
}

// NewChouOrlandi creates a new Chou-Orlandi OT implementing the OT
// interface.
func NewChouOrlandi() *ChouOrlandi {
	return &ChouOrlandi{
		curve:  elliptic.P256(),
		digest: make([]byte, blake2b.Size256),
	}
}

// InitSender initializes the OT sender.
func (co *ChouOrlandi) InitSender(io IO) error {
	co.io = io
	if err := SendString(io, co.curve.Params().Name); err != nil {
		return err
	}
	return io.Flush()
}

// InitReceiver initializes the OT receiver.
func (co *ChouOrlandi) InitReceiver(io IO) error {
	co.io = io

	name, err := ReceiveString(io)
	if err != nil {
		return err
	}
	if name != co.curve.Params().Name {
		return fmt.Errorf("invalid curve %s, expected %s",
			name, co.curve.Params().Name)
	}
	return nil
}

// Send sends the wire label pairs with OT.
func (co *ChouOrlandi) Send(pairs []Pair) error {
	curveParams := co.curve.Params()

	// a <- Zp
	a, err := rand.Int(rand.Reader, curveParams.N)
	if err != nil {
		return err
	}
	aBytes := a.Bytes()

	// A = G^a
	Ax, Ay := co.curve.ScalarBaseMult(aBytes)

	if err := co.io.SendData(Ax.Bytes()); err != nil {
		return err
	}
	if err := co.io.SendData(Ay.Bytes()); err != nil {
		return err
	}
	if err := co.io.Flush(); err != nil {
		return err
	}

	// Aa = A^a
	Aax, Aay := co.curve.ScalarMult(Ax, Ay, aBytes)

	// a:    {x,y}
	// a^-1: {x,-y}
	// AaInv = {Aax, -Aay}
	AaInvx := big.NewInt(0).Set(Aax)
	AaInvy := big.NewInt(0).Sub(curveParams.P, Aay)

	count := len(pairs)
	Bxs := make([]*big.Int, count)
	Bys := make([]*big.Int, count)
	Baxs := make([]*big.Int, count)
	Bays := make([]*big.Int, count)

	BxRaw := big.NewInt(0)
	ByRaw := big.NewInt(0)

	for i := 0; i < count; i++ {
		data, err := co.io.ReceiveData()
		if err != nil {
			return err
		}
		BxRaw.SetBytes(data)
		data, err = co.io.ReceiveData()
		if err != nil {
			return err
		}
		ByRaw.SetBytes(data)

		Bx, By := co.curve.ScalarMult(BxRaw, ByRaw, aBytes)
		Bax, Bay := co.curve.Add(Bx, By, AaInvx, AaInvy)

		Bxs[i], Bys[i] = Bx, By
		Baxs[i], Bays[i] = Bax, Bay
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		l0 := pairs[i].L0.Bytes()
		e0 := xor(kdf(h, Bxs[i], Bys[i], uint64(i), co.digest), l0)
		if err := co.io.SendData(e0); err != nil {
			return err
		}

		l1 := pairs[i].L1.Bytes()
		e1 := xor(kdf(h, Baxs[i], Bays[i], uint64(i), co.digest), l1)
		if err := co.io.SendData(e1); err != nil {
			return err
		}
	}

	return co.io.Flush()
}

// Receive receives the wire labels with OT based on the flag values.
func (co *ChouOrlandi) Receive(flags []bool, result []block.Block) error {
	curveParams := co.curve.Params()

	Ax, err := ReceiveBigInt(co.io)
	if err != nil {
		return err
	}
	Ay, err := ReceiveBigInt(co.io)
	if err != nil {
		return err
	}

	count := len(flags)
	bs := make([]*big.Int, count)

	for i := 0; i < count; i++ {
		// b <- Zp
		b, err := rand.Int(rand.Reader, curveParams.N)
		if err != nil {
			return err
		}
		bs[i] = b

		Bx, By := co.curve.ScalarBaseMult(b.Bytes())
		if flags[i] {
			Bx, By = co.curve.Add(Bx, By, Ax, Ay)
		}
		if err := co.io.SendData(Bx.Bytes()); err != nil {
			return err
		}
		if err := co.io.SendData(By.Bytes()); err != nil {
			return err
		}
	}
	if err := co.io.Flush(); err != nil {
		return err
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		Asx, Asy := co.curve.ScalarMult(Ax, Ay, bs[i].Bytes())
		mask := kdf(h, Asx, Asy, uint64(i), co.digest)

		// Both ciphertexts must always be drained from io regardless of
		// the selection bit, since the stream is framed sequentially.
		e0, err := co.io.ReceiveData()
		if err != nil {
			return err
		}
		e1, err := co.io.ReceiveData()
		if err != nil {
			return err
		}

		var chosen []byte
		if flags[i] {
			chosen = e1
		} else {
			chosen = e0
		}
		result[i].SetBytes(xor(mask, chosen))
	}

	return nil
}

func kdf(h hash.Hash, x, y *big.Int, id uint64, digest []byte) []byte {
	h.Reset()
	h.Write(x.Bytes())
	h.Write(y.Bytes())

	var tmp [8]byte
	bo.PutUint64(tmp[:], id)
	h.Write(tmp[:])

	return h.Sum(digest[:0])
}

func xor(a, b []byte) []byte {
	l := len(a)
	if len(b) < l {
		l = len(b)
	}
	out := make([]byte, l)
	for i := 0; i < l; i++ {
		out[i] = a[i] ^ b[i]
	}
	return out
}
