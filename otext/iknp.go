//
// iknp.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package otext implements the IKNP OT extension protocol, amortizing K
// base OTs (run over an ot.OT, typically ot.ChouOrlandi) into n >> K chosen
// or correlated transfers.
package otext

import (
	"errors"
	"io"

	"github.com/markkurossi/fancygarble/block"
	"github.com/markkurossi/fancygarble/ot"
)

// K defines the security parameter of the IKNP protocol: the number of
// base OTs the extension amortizes over.
const K = 128

// Sender implements the sender side of the IKNP OT extension. After setup
// it can expand into an arbitrary number of label pairs by calling Expand.
type Sender struct {
	base    ot.OT
	io      ot.IO
	choices []bool
	seeds   [K][16]byte
}

// Receiver implements the receiver side of the IKNP OT extension.
type Receiver struct {
	base  ot.OT
	io    ot.IO
	seed0 [K][16]byte
	seed1 [K][16]byte
}

// NewSender creates a new IKNP sender. base must already be connected
// (InitSender/InitReceiver already called by the caller as appropriate);
// NewSender drives base as an OT *receiver* of the K base transfers, per
// the IKNP construction (the extension sender plays the base-OT receiver
// role and vice versa).
func NewSender(base ot.OT, transport ot.IO, r io.Reader) (*Sender, error) {
	choices := make([]bool, K)
	var buf [K / 8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	for i := 0; i < K; i++ {
		choices[i] = (buf[i/8]>>uint(i%8))&1 == 1
	}

	labels := make([]block.Block, K)
	if err := base.Receive(choices, labels); err != nil {
		return nil, err
	}

	s := &Sender{
		base:    base,
		io:      transport,
		choices: choices,
	}
	for i := 0; i < K; i++ {
		copy(s.seeds[i][:], labels[i].Bytes())
	}
	return s, nil
}

// Expand produces n correlated label pairs. The sender's share of pair j is
// (L0[j], L0[j] xor Delta) where Delta is implicit in the base OT choice
// bits; Expand returns the two explicit labels per pair directly so callers
// don't need to track Delta separately.
func (s *Sender) Expand(n int) ([]ot.Pair, error) {
	if n <= 0 {
		return nil, errors.New("otext: n must be positive")
	}
	rowBytes := (n + 7) / 8

	u, err := s.io.ReceiveData()
	if err != nil {
		return nil, err
	}
	if len(u) < K*rowBytes {
		return nil, errors.New("otext: short U matrix")
	}

	rows := make([][]byte, K)
	for i := 0; i < K; i++ {
		rows[i] = make([]byte, rowBytes)
		if err := prgAESCTR(s.seeds[i][:], rows[i]); err != nil {
			return nil, err
		}
		if s.choices[i] {
			urow := u[i*rowBytes : (i+1)*rowBytes]
			for j := 0; j < rowBytes; j++ {
				rows[i][j] ^= urow[j]
			}
		}
	}

	pairs := make([]ot.Pair, n)
	for j := 0; j < n; j++ {
		byteRow := j / 8
		bitPos := uint(j % 8)

		var l0, l1 block.Block
		for bit := 0; bit < K; bit++ {
			t0Bit := (rows[bit][byteRow] >> bitPos) & 1
			if t0Bit == 1 {
				l0.SetBit(bit, 1)
			}
			var sBit byte
			if s.choices[bit] {
				sBit = 1
			}
			if (t0Bit ^ sBit) == 1 {
				l1.SetBit(bit, 1)
			}
		}
		pairs[j] = ot.Pair{L0: l0, L1: l1}
	}

	return pairs, nil
}

// NewReceiver creates a new IKNP receiver. NewReceiver drives base as an OT
// *sender* of the K base transfers.
func NewReceiver(base ot.OT, transport ot.IO, r io.Reader) (*Receiver, error) {
	pairs := make([]ot.Pair, K)
	recv := &Receiver{base: base, io: transport}

	for i := 0; i < K; i++ {
		l0, err := block.Random(r)
		if err != nil {
			return nil, err
		}
		l1, err := block.Random(r)
		if err != nil {
			return nil, err
		}
		copy(recv.seed0[i][:], l0.Bytes())
		copy(recv.seed1[i][:], l1.Bytes())
		pairs[i] = ot.Pair{L0: l0, L1: l1}
	}
	if err := base.Send(pairs); err != nil {
		return nil, err
	}

	return recv, nil
}

// Expand consumes the receiver's n choice bits and returns the n labels
// correlated with the sender's (L0, L1) pairs: flags[j] selects L1 in pair
// j, L0 otherwise.
func (r *Receiver) Expand(flags []bool) ([]block.Block, error) {
	n := len(flags)
	if n == 0 {
		return nil, errors.New("otext: flags must be non-empty")
	}
	rowBytes := (n + 7) / 8

	t0 := make([][]byte, K)
	t1 := make([][]byte, K)
	for i := 0; i < K; i++ {
		t0[i] = make([]byte, rowBytes)
		t1[i] = make([]byte, rowBytes)
		if err := prgAESCTR(r.seed0[i][:], t0[i]); err != nil {
			return nil, err
		}
		if err := prgAESCTR(r.seed1[i][:], t1[i]); err != nil {
			return nil, err
		}
	}

	fbuf := make([]byte, rowBytes)
	for j, f := range flags {
		if f {
			fbuf[j/8] |= 1 << uint(j%8)
		}
	}

	u := make([]byte, K*rowBytes)
	for i := 0; i < K; i++ {
		row := u[i*rowBytes : (i+1)*rowBytes]
		for j := 0; j < rowBytes; j++ {
			row[j] = t0[i][j] ^ t1[i][j] ^ fbuf[j]
		}
	}
	if err := r.io.SendData(u); err != nil {
		return nil, err
	}
	if err := r.io.Flush(); err != nil {
		return nil, err
	}

	out := make([]block.Block, n)
	for j := 0; j < n; j++ {
		byteRow := j / 8
		bitPos := uint(j % 8)
		for bit := 0; bit < K; bit++ {
			b := (t0[bit][byteRow] >> bitPos) & 1
			if b == 1 {
				out[j].SetBit(bit, 1)
			}
		}
	}

	return out, nil
}
