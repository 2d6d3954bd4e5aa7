// Package rng provides the two random-number sources used across the
// garbling core and the oblivious transfer protocols: a deterministic
// AES-CTR stream for reproducible derived randomness, and a thin wrapper
// over crypto/rand for the non-deterministic values (OT scalars, wire
// deltas) that must never repeat across runs.
package rng

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/markkurossi/fancygarble/block"
)

// AESCTR implements a deterministic pseudorandom stream seeded by a single
// Block: two parties holding the same seed derive the same stream without
// an extra round trip. (Package otext expands its base-OT seeds with its
// own AES-CTR helper, not with this type.)
type AESCTR struct {
	stream cipher.Stream
}

// NewAESCTR creates a deterministic AES-CTR stream from seed.
func NewAESCTR(seed block.Block) (*AESCTR, error) {
	cph, err := aes.NewCipher(seed.Bytes())
	if err != nil {
		return nil, err
	}
	var iv [16]byte
	return &AESCTR{stream: cipher.NewCTR(cph, iv[:])}, nil
}

// Read implements io.Reader by returning successive AES-CTR keystream
// bytes. It never returns an error.
func (a *AESCTR) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	a.stream.XORKeyStream(p, p)
	return len(p), nil
}

var _ io.Reader = &AESCTR{}

// Thread returns the process-wide cryptographically secure random source,
// used for OT scalars, base-OT randomness, and Δ generation.
func Thread() io.Reader {
	return rand.Reader
}

// Block draws one random Block from r.
func Block(r io.Reader) (block.Block, error) {
	return block.Random(r)
}
