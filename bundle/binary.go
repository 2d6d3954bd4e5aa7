package bundle

import (
	"github.com/markkurossi/fancygarble/fancy"
)

// BinaryBundle is a Bundle known (by construction) to hold only mod-2
// wires, the representation the bin_* gadgets below operate over.
//
// Unwrap and Borrow are both non-consuming accessors to the underlying
// Bundle, kept as two separate names because the upstream history this
// was modeled on left an unresolved three-way naming disagreement between
// "unwrap", "borrow" and a consuming "extract" — rather than guess which
// survived, this keeps both non-consuming names and the consuming one.
// Extract consumes the BinaryBundle and returns the Bundle by value; the
// receiver should not be used again afterward.
type BinaryBundle[W any] struct {
	b Bundle[W]
}

// NewBinaryBundle wraps ws (assumed mod-2) as a BinaryBundle.
func NewBinaryBundle[W any](ws []W) BinaryBundle[W] {
	return BinaryBundle[W]{b: New(ws)}
}

// FromBundle marks a regular Bundle as binary.
func FromBundle[W any](b Bundle[W]) BinaryBundle[W] {
	return BinaryBundle[W]{b: b}
}

// Unwrap returns a non-consuming reference to the underlying Bundle.
func (bb *BinaryBundle[W]) Unwrap() *Bundle[W] {
	return &bb.b
}

// Borrow returns a non-consuming reference to the underlying Bundle
// (same semantics as Unwrap, kept as a distinct name; see the type doc).
func (bb *BinaryBundle[W]) Borrow() *Bundle[W] {
	return &bb.b
}

// Extract consumes bb and returns the underlying Bundle by value.
func (bb BinaryBundle[W]) Extract() Bundle[W] {
	return bb.b
}

// Wires returns the bundle's wires in order, digit 0 (LSB) first.
func (bb BinaryBundle[W]) Wires() []W {
	return bb.b.Wires
}

// Size returns the number of bits in the bundle.
func (bb BinaryBundle[W]) Size() int {
	return len(bb.b.Wires)
}

// BinGarblerInputBundle creates nbits garbler-input mod-2 wires.
func BinGarblerInputBundle[W any](f fancy.Fancy[W], nbits int) (BinaryBundle[W], error) {
	ws := make([]W, nbits)
	for i := range ws {
		w, err := f.GarblerInput(2)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		ws[i] = w
	}
	return NewBinaryBundle(ws), nil
}

// BinEvaluatorInputBundle creates nbits evaluator-input mod-2 wires.
func BinEvaluatorInputBundle[W any](f fancy.Fancy[W], nbits int) (BinaryBundle[W], error) {
	ws := make([]W, nbits)
	for i := range ws {
		w, err := f.EvaluatorInput(2)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		ws[i] = w
	}
	return NewBinaryBundle(ws), nil
}

// BinConstantBundle creates a bundle of known-value mod-2 wires encoding
// val's binary representation, LSB first, nbits wide.
func BinConstantBundle[W any](f fancy.Fancy[W], val uint64, nbits int) (BinaryBundle[W], error) {
	ws := make([]W, nbits)
	for i := range ws {
		bit := uint16((val >> uint(i)) & 1)
		w, err := f.Constant(bit, 2)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		ws[i] = w
	}
	return NewBinaryBundle(ws), nil
}

// BinXor xors the bits of x and y pairwise.
func BinXor[W any](f fancy.Fancy[W], x, y BinaryBundle[W]) (BinaryBundle[W], error) {
	b, err := AddBundles(f, *x.Borrow(), *y.Borrow())
	return FromBundle(b), err
}

// BinAnd ands the bits of x and y pairwise.
func BinAnd[W any](f fancy.Fancy[W], x, y BinaryBundle[W]) (BinaryBundle[W], error) {
	b, err := MulBundles(f, *x.Borrow(), *y.Borrow())
	return FromBundle(b), err
}

// adder is a 1-bit full adder (half adder when carry is nil): returns the
// sum bit and the carry out.
func adder[W any](f fancy.Fancy[W], x, y W, carry *W) (z W, c W, err error) {
	xy, err := fancy.Xor(f, x, y)
	if err != nil {
		return z, c, err
	}
	if carry == nil {
		z = xy
		c, err = fancy.And(f, x, y)
		return z, c, err
	}
	z, err = fancy.Xor(f, xy, *carry)
	if err != nil {
		return z, c, err
	}
	xAndY, err := fancy.And(f, x, y)
	if err != nil {
		return z, c, err
	}
	xyAndCarry, err := fancy.And(f, xy, *carry)
	if err != nil {
		return z, c, err
	}
	c, err = fancy.Or(f, xAndY, xyAndCarry)
	return z, c, err
}

// BinAddition adds xs and ys bitwise, returning the sum bundle and the
// final carry-out bit.
func BinAddition[W any](f fancy.Fancy[W], xs, ys BinaryBundle[W]) (BinaryBundle[W], W, error) {
	var zero W
	if xs.Size() != ys.Size() {
		return BinaryBundle[W]{}, zero, fancy.ErrUnequalModuli
	}
	xw, yw := xs.Wires(), ys.Wires()
	z, c, err := adder(f, xw[0], yw[0], nil)
	if err != nil {
		return BinaryBundle[W]{}, zero, err
	}
	bs := []W{z}
	for i := 1; i < len(xw); i++ {
		z, c, err = adder(f, xw[i], yw[i], &c)
		if err != nil {
			return BinaryBundle[W]{}, zero, err
		}
		bs = append(bs, z)
	}
	return NewBinaryBundle(bs), c, nil
}

// BinAdditionNoCarry is BinAddition without a dedicated final carry-out
// gate: the top bit folds the carry in via a 3-way add instead.
func BinAdditionNoCarry[W any](f fancy.Fancy[W], xs, ys BinaryBundle[W]) (BinaryBundle[W], error) {
	if xs.Size() != ys.Size() {
		return BinaryBundle[W]{}, fancy.ErrUnequalModuli
	}
	xw, yw := xs.Wires(), ys.Wires()
	z, c, err := adder(f, xw[0], yw[0], nil)
	if err != nil {
		return BinaryBundle[W]{}, err
	}
	bs := []W{z}
	for i := 1; i < len(xw)-1; i++ {
		z, c, err = adder(f, xw[i], yw[i], &c)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		bs = append(bs, z)
	}
	last := len(xw) - 1
	z, err = fancy.AddMany(f, []W{xw[last], yw[last], c})
	if err != nil {
		return BinaryBundle[W]{}, err
	}
	bs = append(bs, z)
	return NewBinaryBundle(bs), nil
}

// Shift returns x shifted toward the most-significant end by amt bit
// positions, keeping the same total width (new low bits are 0, bits
// shifted past the top are dropped) — used by BinMultiplicationLowerHalf
// and BinCmul to build partial products.
func Shift[W any](f fancy.Fancy[W], x BinaryBundle[W], amt int) (BinaryBundle[W], error) {
	n := x.Size()
	xw := x.Wires()
	ws := make([]W, n)
	for i := 0; i < n; i++ {
		if i < amt {
			z, err := f.Constant(0, 2)
			if err != nil {
				return BinaryBundle[W]{}, err
			}
			ws[i] = z
		} else {
			ws[i] = xw[i-amt]
		}
	}
	return NewBinaryBundle(ws), nil
}

// BinMultiplicationLowerHalf multiplies xs and ys and returns the
// low-order half of the result, i.e. a value with the same bit width as
// the inputs.
func BinMultiplicationLowerHalf[W any](f fancy.Fancy[W], xs, ys BinaryBundle[W]) (BinaryBundle[W], error) {
	if xs.Size() != ys.Size() {
		return BinaryBundle[W]{}, fancy.ErrUnequalModuli
	}
	xw, yw := xs.Wires(), ys.Wires()

	sumWires := make([]W, len(xw))
	for i, x := range xw {
		w, err := fancy.And(f, x, yw[0])
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		sumWires[i] = w
	}
	sum := NewBinaryBundle(sumWires)

	for i := 1; i < len(xw); i++ {
		mulWires := make([]W, len(xw))
		for j, x := range xw {
			w, err := fancy.And(f, x, yw[i])
			if err != nil {
				return BinaryBundle[W]{}, err
			}
			mulWires[j] = w
		}
		shifted, err := Shift(f, NewBinaryBundle(mulWires), i)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		sum, err = BinAdditionNoCarry(f, sum, shifted)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
	}
	return sum, nil
}

// BinTwosComplement computes the twos complement of xs.
func BinTwosComplement[W any](f fancy.Fancy[W], xs BinaryBundle[W]) (BinaryBundle[W], error) {
	xw := xs.Wires()
	notWires := make([]W, len(xw))
	for i, x := range xw {
		w, err := fancy.Negate(f, x)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		notWires[i] = w
	}
	notXs := NewBinaryBundle(notWires)
	one, err := BinConstantBundle(f, 1, xs.Size())
	if err != nil {
		return BinaryBundle[W]{}, err
	}
	return BinAdditionNoCarry(f, notXs, one)
}

// BinSubtraction subtracts ys from xs, returning the result and whether
// the subtraction underflowed (per the twos-complement identity, that
// flag means y != 0 && x >= y, not "x < y" — see BinLt).
func BinSubtraction[W any](f fancy.Fancy[W], xs, ys BinaryBundle[W]) (BinaryBundle[W], W, error) {
	var zero W
	negYs, err := BinTwosComplement(f, ys)
	if err != nil {
		return BinaryBundle[W]{}, zero, err
	}
	return BinAddition(f, xs, negYs)
}

// muxConstantBit returns b1 if x == 0 else b2, both compile-time-known
// bits, via the XOR identity b1 ^ (x & (b1^b2)).
func muxConstantBit[W any](f fancy.Fancy[W], x W, b1, b2 bool) (W, error) {
	v1 := uint16(0)
	if b1 {
		v1 = 1
	}
	c1, err := f.Constant(v1, 2)
	if err != nil {
		return c1, err
	}
	if b1 == b2 {
		return c1, nil
	}
	return fancy.Xor(f, c1, x)
}

// BinMultiplexConstantBits returns c1 (as a constant bit bundle) if x == 0,
// else c2.
func BinMultiplexConstantBits[W any](f fancy.Fancy[W], x W, c1, c2 uint64, nbits int) (BinaryBundle[W], error) {
	ws := make([]W, nbits)
	for i := 0; i < nbits; i++ {
		b1 := (c1>>uint(i))&1 != 0
		b2 := (c2>>uint(i))&1 != 0
		w, err := muxConstantBit(f, x, b1, b2)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		ws[i] = w
	}
	return NewBinaryBundle(ws), nil
}

// BinCmul multiplies x by the plaintext constant c, built from shift+add
// over c's set bits (e.g. 7x = 4x + 2x + x).
func BinCmul[W any](f fancy.Fancy[W], x BinaryBundle[W], c uint64, nbits int) (BinaryBundle[W], error) {
	z, err := BinConstantBundle(f, 0, nbits)
	if err != nil {
		return BinaryBundle[W]{}, err
	}
	for i := 0; i < nbits; i++ {
		if (c>>uint(i))&1 == 0 {
			continue
		}
		s, err := Shift(f, x, i)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		z, err = BinAdditionNoCarry(f, z, s)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
	}
	return z, nil
}

// BinAbs computes the absolute value of a twos-complement binary bundle
// (sign bit is the most significant wire).
func BinAbs[W any](f fancy.Fancy[W], x BinaryBundle[W]) (BinaryBundle[W], error) {
	sign := x.Wires()[x.Size()-1]
	negated, err := BinTwosComplement(f, x)
	if err != nil {
		return BinaryBundle[W]{}, err
	}
	ws := make([]W, x.Size())
	for i := range ws {
		w, err := fancy.Mux(f, sign, x.Wires()[i], negated.Wires()[i])
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		ws[i] = w
	}
	return NewBinaryBundle(ws), nil
}

// BinLt returns 1 if x < y, both treated as unsigned binary bundles.
//
// BinSubtraction's carry-out is the correct ">=" test only when y != 0:
// twos_complement(0) is 0, not 2^n (an n-bit bundle has no way to hold
// 2^n), so subtracting 0 never produces a carry regardless of x, even
// though x >= 0 must always hold. The fix is to OR the carry with an
// explicit y == 0 check, so "y == 0" forces the >= answer to true instead
// of leaving it to a carry computation that structurally can't see it
// (this is the y = 0 edge case property 7 requires: bin_lt(x, 0) == 0 for
// every x, including x == 0).
func BinLt[W any](f fancy.Fancy[W], x, y BinaryBundle[W]) (W, error) {
	var zero W
	_, carry, err := BinSubtraction(f, x, y)
	if err != nil {
		return zero, err
	}

	yContains1, err := fancy.OrMany(f, y.Wires())
	if err != nil {
		return zero, err
	}
	yEq0, err := fancy.Negate(f, yContains1)
	if err != nil {
		return zero, err
	}

	geq, err := fancy.Or(f, carry, yEq0)
	if err != nil {
		return zero, err
	}
	return fancy.Negate(f, geq)
}

// BinGeq returns 1 if x >= y.
func BinGeq[W any](f fancy.Fancy[W], x, y BinaryBundle[W]) (W, error) {
	lt, err := BinLt(f, x, y)
	if err != nil {
		var zero W
		return zero, err
	}
	return fancy.Negate(f, lt)
}

// BinMax returns the largest bundle among xs.
func BinMax[W any](f fancy.Fancy[W], xs []BinaryBundle[W]) (BinaryBundle[W], error) {
	if len(xs) < 2 {
		return BinaryBundle[W]{}, fancy.ErrInvalidArgNum
	}
	acc := xs[0]
	for _, y := range xs[1:] {
		pos, err := BinLt(f, acc, y)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		neg, err := fancy.Negate(f, pos)
		if err != nil {
			return BinaryBundle[W]{}, err
		}
		ws := make([]W, acc.Size())
		for i := range ws {
			xp, err := f.Mul(acc.Wires()[i], neg)
			if err != nil {
				return BinaryBundle[W]{}, err
			}
			yp, err := f.Mul(y.Wires()[i], pos)
			if err != nil {
				return BinaryBundle[W]{}, err
			}
			w, err := f.Add(xp, yp)
			if err != nil {
				return BinaryBundle[W]{}, err
			}
			ws[i] = w
		}
		acc = NewBinaryBundle(ws)
	}
	return acc, nil
}
