// Package block implements the 128-bit wire label representation shared by
// the garbling core, the wire algebra, and the oblivious transfer
// implementations.
package block

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"io"
)

// Block is a 128-bit value used as a wire label, a Δ offset, or an OT
// payload. It is stored as two uint64 halves in big-endian order (D0 is the
// high half) so that the low bit of D1 can double as the point-and-permute
// signal bit without touching the rest of the value.
type Block struct {
	D0, D1 uint64
}

// Zero is the all-zero block.
var Zero Block

// New constructs a Block from its big-endian byte representation.
func New(data []byte) Block {
	var b Block
	b.SetBytes(data)
	return b
}

// Random draws a uniformly random Block from r.
func Random(r io.Reader) (Block, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Block{}, err
	}
	return New(buf[:]), nil
}

// RandomCrypto draws a Block from crypto/rand.
func RandomCrypto() (Block, error) {
	return Random(rand.Reader)
}

// Bytes returns the big-endian byte representation of b.
func (b Block) Bytes() []byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], b.D0)
	binary.BigEndian.PutUint64(buf[8:16], b.D1)
	return buf[:]
}

// SetBytes sets b from a big-endian byte slice, zero-padding on the left if
// shorter than 16 bytes and using only the trailing 16 bytes if longer.
func (b *Block) SetBytes(data []byte) {
	var buf [16]byte
	if len(data) >= 16 {
		copy(buf[:], data[len(data)-16:])
	} else {
		copy(buf[16-len(data):], data)
	}
	b.D0 = binary.BigEndian.Uint64(buf[0:8])
	b.D1 = binary.BigEndian.Uint64(buf[8:16])
}

// Xor returns a XOR b.
func (a Block) Xor(b Block) Block {
	return Block{D0: a.D0 ^ b.D0, D1: a.D1 ^ b.D1}
}

// Equal reports whether a and b hold the same value.
func (a Block) Equal(b Block) bool {
	return a.D0 == b.D0 && a.D1 == b.D1
}

// S returns the point-and-permute signal bit: the least significant bit of
// the block.
func (a Block) S() bool {
	return a.D1&1 == 1
}

// SetS forces the signal bit of b to s, leaving the rest of the value
// unchanged.
func (b Block) SetS(s bool) Block {
	if s {
		b.D1 |= 1
	} else {
		b.D1 &^= 1
	}
	return b
}

// Mul2 rotates b left by one bit across the two 64-bit halves: the top bit
// of D0 wraps around into the low bit of D1. Hash uses it to build its AES
// input.
func (b Block) Mul2() Block {
	carry := b.D0 >> 63
	return Block{D0: b.D0<<1 | b.D1>>63, D1: b.D1<<1 | carry}
}

// Mul4 applies Mul2 twice.
func (b Block) Mul4() Block {
	return b.Mul2().Mul2()
}

// Bit returns bit i (0 is the least significant bit of D1).
func (b Block) Bit(i int) uint {
	if i < 64 {
		return uint(b.D1>>uint(i)) & 1
	}
	return uint(b.D0>>uint(i-64)) & 1
}

// SetBit sets bit i to v (0 or 1).
func (b *Block) SetBit(i int, v uint) {
	if i < 64 {
		if v == 1 {
			b.D1 |= 1 << uint(i)
		} else {
			b.D1 &^= 1 << uint(i)
		}
		return
	}
	if v == 1 {
		b.D0 |= 1 << uint(i-64)
	} else {
		b.D0 &^= 1 << uint(i-64)
	}
}

// fixedKeyCipher is the single AES-128 instance used to implement the
// fixed-key permutation that backs Hash. The key value is arbitrary and
// public; security relies on AES being modeled as an ideal cipher here, not
// on the key's secrecy (matches the teacher's garble.go convention of a
// single package-level AES key shared by garbler and evaluator).
var fixedKeyCipher = func() cipher.Block {
	var key [16]byte
	cph, err := aes.NewCipher(key[:])
	if err != nil {
		panic(err)
	}
	return cph
}()

// Hash implements the Davies-Meyer fixed-key AES permutation π(K) ⊕ K used
// by the garbling core's gate hash function, with K built from b and a
// 64-bit tweak (gate id / sub-gate index). This is the single place actual
// pseudorandomness enters a garbled gate; free operations (Xor, Mul2) never
// call it.
func (b Block) Hash(tweak uint64) Block {
	k := b.Mul2().Xor(Block{D1: tweak})
	src := k.Bytes()
	var dst [16]byte
	fixedKeyCipher.Encrypt(dst[:], src)
	return New(dst[:]).Xor(k)
}
