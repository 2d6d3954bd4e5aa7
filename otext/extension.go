//
// extension.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package otext

import (
	"fmt"

	"github.com/markkurossi/fancygarble/block"
	"github.com/markkurossi/fancygarble/ot"
	"github.com/markkurossi/fancygarble/rng"
)

// Extension amortizes a single ot.OT base instance (by convention an
// ot.ChouOrlandi) into an arbitrary number of chosen-message transfers via
// IKNP OT extension plus a one-time-pad derandomization round. It exposes
// the same Send/Receive surface as a base OT, so callers can substitute an
// Extension wherever an ot.OT is expected once the expected transfer volume
// makes amortization worthwhile.
type Extension struct {
	base ot.OT
	io   ot.IO

	sender   *Sender
	receiver *Receiver
}

var _ ot.OT = &Extension{}

// NewExtension wraps base, an already-constructed but not yet initialized
// base OT, into an IKNP-extended OT.
func NewExtension(base ot.OT) *Extension {
	return &Extension{base: base}
}

// InitSender initializes the extension sender. This runs the K base OTs
// immediately (the extension sender plays the base-OT receiver role), so
// that subsequent Send calls only pay the cheap symmetric-key cost.
func (e *Extension) InitSender(io ot.IO) error {
	e.io = io
	if err := e.base.InitReceiver(io); err != nil {
		return err
	}
	s, err := NewSender(e.base, io, rng.Thread())
	if err != nil {
		return err
	}
	e.sender = s
	return nil
}

// InitReceiver initializes the extension receiver, running the K base OTs
// (the extension receiver plays the base-OT sender role).
func (e *Extension) InitReceiver(io ot.IO) error {
	e.io = io
	if err := e.base.InitSender(io); err != nil {
		return err
	}
	r, err := NewReceiver(e.base, io, rng.Thread())
	if err != nil {
		return err
	}
	e.receiver = r
	return nil
}

// Send transfers pairs via IKNP expansion followed by one-time-pad
// derandomization: the correlated (r0, r1) pair from Expand masks the
// caller's arbitrary (L0, L1), and the masks are sent over io so the
// receiver's chosen mask unwraps its chosen label.
func (e *Extension) Send(pairs []ot.Pair) error {
	if e.sender == nil {
		return fmt.Errorf("otext: Send called before InitSender")
	}
	correlated, err := e.sender.Expand(len(pairs))
	if err != nil {
		return err
	}
	for i, pair := range pairs {
		e0 := pair.L0.Xor(correlated[i].L0)
		e1 := pair.L1.Xor(correlated[i].L1)
		if err := e.io.SendData(e0.Bytes()); err != nil {
			return err
		}
		if err := e.io.SendData(e1.Bytes()); err != nil {
			return err
		}
	}
	return e.io.Flush()
}

// Receive receives the chosen labels for flags, unwrapping the masks sent
// by Send using the receiver's IKNP-correlated randomness.
func (e *Extension) Receive(flags []bool, result []block.Block) error {
	if e.receiver == nil {
		return fmt.Errorf("otext: Receive called before InitReceiver")
	}
	correlated, err := e.receiver.Expand(flags)
	if err != nil {
		return err
	}
	for i, flag := range flags {
		var e0, e1 []byte
		var err error
		e0, err = e.io.ReceiveData()
		if err != nil {
			return err
		}
		e1, err = e.io.ReceiveData()
		if err != nil {
			return err
		}
		var masked block.Block
		if flag {
			masked.SetBytes(e1)
		} else {
			masked.SetBytes(e0)
		}
		result[i] = masked.Xor(correlated[i])
	}
	return nil
}
