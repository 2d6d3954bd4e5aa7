// Package wire implements the mod-q wire label algebra that the garbling
// core and the Fancy builders are defined over: Wire values carry a label
// for each residue digit of a (possibly composite, via CRT) modulus, with
// free addition/subtraction/constant-multiplication and a hash-based
// re-randomization step for projection and multiplication gates.
package wire

import (
	"fmt"
	"io"

	"github.com/markkurossi/fancygarble/block"
)

// ceilLog2 returns ceil(log2(n)) for n >= 2, and 1 for n <= 1.
func ceilLog2(n uint16) int {
	if n <= 1 {
		return 1
	}
	bits := 0
	v := n - 1
	for v > 0 {
		bits++
		v >>= 1
	}
	return bits
}

// Wire is a garbled label for a value in Z_q. For q == 2 it is a single
// free-XOR-compatible Block. For q > 2 it is a vector of ceil(log2(q))
// digit blocks, the low 16 bits of each block holding a residue in [0, q);
// the extra entropy above those 16 bits exists purely so HashBack's output
// is full-width pseudorandomness rather than a bare residue.
type Wire struct {
	Mod    uint16
	Digits []block.Block
}

// digitCount returns how many digit blocks a Wire of modulus q is made of.
func digitCount(q uint16) int {
	if q == 2 {
		return 1
	}
	return ceilLog2(q)
}

// Zero returns the zero-value Wire of modulus q (all digit blocks zero).
func Zero(q uint16) Wire {
	return Wire{Mod: q, Digits: make([]block.Block, digitCount(q))}
}

// FromResidue builds a Wire of modulus q whose label bits are all zero and
// whose every digit carries the residue val (for q == 2, the signal bit is
// val's low bit).
func FromResidue(q uint16, val uint16) Wire {
	w := Zero(q)
	setResidue(&w, val)
	return w
}

func setResidue(w *Wire, val uint16) {
	if w.Mod == 2 {
		s := val&1 == 1
		w.Digits[0] = w.Digits[0].SetS(s)
		return
	}
	for i := range w.Digits {
		w.Digits[i].D1 = (w.Digits[i].D1 &^ 0xffff) | uint64(val)
	}
}

// Color returns the plaintext-visible residue carried by the wire's
// point-and-permute signal (for q==2, the S bit; for q>2, the low 16 bits
// of digit 0). This is the value an evaluator can read off a label without
// knowing which value it actually encodes — used to select ciphertext rows.
func (w Wire) Color() uint16 {
	if w.Mod == 2 {
		if w.Digits[0].S() {
			return 1
		}
		return 0
	}
	return uint16(w.Digits[0].D1 & 0xffff)
}

// Rand draws a fresh random Wire of modulus q.
func Rand(r io.Reader, q uint16) (Wire, error) {
	w := Zero(q)
	for i := range w.Digits {
		b, err := block.Random(r)
		if err != nil {
			return Wire{}, err
		}
		if q != 2 {
			b.D1 = (b.D1 &^ 0xffff) | (b.D1&0xffff)%uint64(q)
		}
		w.Digits[i] = b
	}
	return w, nil
}

// Xor XORs two mod-2 wires (free-XOR). Both wires must have modulus 2.
func (w Wire) Xor(o Wire) Wire {
	if w.Mod != 2 || o.Mod != 2 {
		panic("wire: Xor requires modulus 2")
	}
	return Wire{Mod: 2, Digits: []block.Block{w.Digits[0].Xor(o.Digits[0])}}
}

// Plus performs free digit-wise addition mod w.Mod. w and o must share a
// modulus.
func (w Wire) Plus(o Wire) (Wire, error) {
	if w.Mod != o.Mod {
		return Wire{}, fmt.Errorf("wire: modulus mismatch %d != %d", w.Mod, o.Mod)
	}
	if w.Mod == 2 {
		return w.Xor(o), nil
	}
	out := Zero(w.Mod)
	for i := range w.Digits {
		out.Digits[i] = addDigit(w.Digits[i], o.Digits[i], w.Mod)
	}
	return out, nil
}

// Minus performs free digit-wise subtraction mod w.Mod.
func (w Wire) Minus(o Wire) (Wire, error) {
	if w.Mod != o.Mod {
		return Wire{}, fmt.Errorf("wire: modulus mismatch %d != %d", w.Mod, o.Mod)
	}
	if w.Mod == 2 {
		return w.Xor(o), nil
	}
	out := Zero(w.Mod)
	for i := range w.Digits {
		out.Digits[i] = subDigit(w.Digits[i], o.Digits[i], w.Mod)
	}
	return out, nil
}

// Cmul multiplies w by a plaintext constant c, mod w.Mod. This is a free
// operation: it never calls HashBack.
func (w Wire) Cmul(c uint16) Wire {
	if w.Mod == 2 {
		if c%2 == 0 {
			return Zero(2)
		}
		return w
	}
	out := Zero(w.Mod)
	for i := range w.Digits {
		out.Digits[i] = cmulDigit(w.Digits[i], c, w.Mod)
	}
	return out
}

// Negate returns the additive inverse of w mod w.Mod (0 - w).
func (w Wire) Negate() Wire {
	return w.Cmul(w.Mod - 1)
}

// addDigit adds two digit blocks: the label halves (everything but the low
// 16 bits) XOR, the residues add mod q. Free-XOR security for composite
// moduli relies on the same Δ_q offset being XORed consistently by the
// caller (see DeltaTable); Plus/Minus only combine already-offset labels.
func addDigit(a, b block.Block, q uint16) block.Block {
	ra := uint16(a.D1 & 0xffff)
	rb := uint16(b.D1 & 0xffff)
	sum := (ra + rb) % q
	out := a.Xor(b)
	out.D1 = (out.D1 &^ 0xffff) | uint64(sum)
	return out
}

func subDigit(a, b block.Block, q uint16) block.Block {
	ra := uint16(a.D1 & 0xffff)
	rb := uint16(b.D1 & 0xffff)
	diff := (ra + q - rb) % q
	out := a.Xor(b)
	out.D1 = (out.D1 &^ 0xffff) | uint64(diff)
	return out
}

// cmulDigit scales a digit's residue by c mod q and clears the label bits
// above it, so that cmul(Δ, a) + cmul(Δ, b) == cmul(Δ, (a+b) mod q) for
// every a and b.
func cmulDigit(a block.Block, c uint16, q uint16) block.Block {
	ra := uint16(a.D1 & 0xffff)
	prod := uint16((uint32(ra) * uint32(c)) % uint32(q))
	return block.Block{D1: uint64(prod)}
}

// Digest collapses a (possibly multi-block) wire into a single pseudorandom
// block, tweak-separated. Used as the input to a further expansion step by
// both HashBack and HashPair.
func (w Wire) Digest(tweak uint64) block.Block {
	var acc block.Block
	for i, d := range w.Digits {
		acc = acc.Xor(d.Hash(tweak ^ uint64(i)<<32))
	}
	return acc
}

// expand turns a single-block digest into a fresh Wire of modulus outMod.
func expand(acc block.Block, tweak uint64, outMod uint16) Wire {
	out := Zero(outMod)
	for i := range out.Digits {
		out.Digits[i] = acc.Hash(tweak ^ uint64(i+1))
	}
	if outMod != 2 {
		// Reduce the first digit's extra entropy into a genuine residue so
		// Color() reads a value in [0, outMod).
		residue := uint16(out.Digits[0].D1%uint64(outMod)) % outMod
		setResidue(&out, residue)
	}
	return out
}

// HashBack derives a fresh pseudorandom Wire of modulus outMod from w,
// using tweak to domain-separate distinct gates/sub-gates that would
// otherwise hash the same input. This is the only place a Proj or Mul gate
// introduces real pseudorandomness; Plus/Minus/Cmul never call it.
func (w Wire) HashBack(tweak uint64, outMod uint16) Wire {
	return expand(w.Digest(tweak), tweak, outMod)
}

// HashPair derives a fresh pseudorandom Wire of modulus outMod from a pair
// of wires, used by two-input gates (Mul) in place of HashBack. The second
// wire is digested under a distinct tweak before combining, so swapping a
// and b yields an unrelated result.
func HashPair(a, b Wire, tweak uint64, outMod uint16) Wire {
	acc := a.Digest(tweak).Xor(b.Digest(tweak ^ 0x9e3779b97f4a7c15))
	return expand(acc, tweak, outMod)
}
