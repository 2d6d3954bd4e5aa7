//
// ot.go
//
// Copyright (c) 2023 Markku Rossi
//
// All rights reserved.

// Package ot implements oblivious transfer protocols: the Chou-Orlandi
// base OT and the transport/IO contract that higher-level extension
// protocols (see the otext package) build on.
package ot

import "github.com/markkurossi/fancygarble/block"

// Pair holds the two wire labels offered by the sender for a single OT
// instance: the label meaning 0 and the label meaning 1.
type Pair struct {
	L0 block.Block
	L1 block.Block
}

// OT defines the base 1-out-of-2 Oblivious Transfer protocol. The sender
// uses Send to send a []Pair array where each pair holds a zero and a one
// label. The receiver calls Receive with a []bool array of selection bits.
// The higher level protocol must ensure the []Pair and []bool array
// lengths match.
type OT interface {
	// InitSender initializes the OT sender.
	InitSender(io IO) error

	// InitReceiver initializes the OT receiver.
	InitReceiver(io IO) error

	// Send sends the wire label pairs with OT.
	Send(pairs []Pair) error

	// Receive receives the wire labels with OT based on the flag values.
	Receive(flags []bool, result []block.Block) error
}
