// Package bundle implements CRT and mixed-radix bundles of wires — groups
// of Fancy wires that together represent one number too large (or with too
// much needed precision) to fit comfortably on a single modulus — plus the
// binary gadgets built on top of mod-2 bundles.
package bundle

import (
	"fmt"
	"strings"

	"github.com/markkurossi/fancygarble/fancy"
	pkgmath "github.com/markkurossi/fancygarble/pkg/math"
	"github.com/markkurossi/text/superscript"
)

// Bundle is an ordered group of wires, each carrying one residue digit of
// a composite-modulus (CRT) or mixed-radix value; digit 0 is always the
// least significant.
type Bundle[W any] struct {
	Wires []W
}

// New wraps ws as a Bundle.
func New[W any](ws []W) Bundle[W] {
	return Bundle[W]{Wires: ws}
}

// Moduli returns the modulus of each wire in the bundle, in order.
func Moduli[W any](f fancy.Fancy[W], b Bundle[W]) []uint16 {
	out := make([]uint16, len(b.Wires))
	for i, w := range b.Wires {
		out[i] = f.Modulus(w)
	}
	return out
}

// String renders b as a mixed-radix sum d0 + d1*q0 + d2*(q0*q1) + ...,
// annotating each term's place-value exponent in superscript (a debug aid;
// it never participates in garbling).
func (b Bundle[W]) String(f fancy.Fancy[W]) string {
	var sb strings.Builder
	place := uint64(1)
	for i, w := range b.Wires {
		if i > 0 {
			sb.WriteString(" + ")
		}
		q := f.Modulus(w)
		fmt.Fprintf(&sb, "d%s·%d", superscript.Itoa(i), place)
		place *= uint64(q)
	}
	return sb.String()
}

// Factor returns the prime-power factorization of q — e.g. Factor(60) =
// [4, 3, 5] (2^2, 3, 5) — the pairwise coprime moduli a CRT bundle for q
// splits into, one wire per factor.
func Factor(q uint64) []uint16 {
	var factors []uint16
	n := q
	for p := uint64(2); p*p <= n; p++ {
		if n%p != 0 {
			continue
		}
		pk := uint64(1)
		for n%p == 0 {
			n /= p
			pk *= p
		}
		factors = append(factors, uint16(pk))
	}
	if n > 1 {
		factors = append(factors, uint16(n))
	}
	if len(factors) == 0 {
		factors = []uint16{uint16(q)}
	}
	return factors
}

// CRT reduces x modulo each of primes, in order.
func CRT(primes []uint16, x uint64) []uint16 {
	out := make([]uint16, len(primes))
	for i, p := range primes {
		out[i] = uint16(x % uint64(p))
	}
	return out
}

// MixedRadixDigits decomposes x into a mixed-radix digit vector under
// radices (digit 0 least significant): digit i is (x / prod_{j<i}
// radices[j]) mod radices[i]. Unlike CRT, radices need not be pairwise
// coprime — this is the encoding MixedRadixAddition's operands use.
func MixedRadixDigits(radices []uint16, x uint64) []uint16 {
	out := make([]uint16, len(radices))
	for i, r := range radices {
		out[i] = uint16(x % uint64(r))
		x /= uint64(r)
	}
	return out
}

// FromMixedRadixDigits is the inverse of MixedRadixDigits: it recombines a
// digit vector under radices back into a single value.
func FromMixedRadixDigits(radices []uint16, digits []uint16) uint64 {
	var v uint64
	place := uint64(1)
	for i, d := range digits {
		v += uint64(d) * place
		place *= uint64(radices[i])
	}
	return v
}

// MixedRadixConstantBundle creates a bundle of known-value wires encoding
// x's mixed-radix digit vector under radices, for use with
// MixedRadixAddition (unlike ConstantBundle, radices need not be pairwise
// coprime).
func MixedRadixConstantBundle[W any](f fancy.Fancy[W], x uint64, radices []uint16) (Bundle[W], error) {
	digits := MixedRadixDigits(radices, x)
	ws := make([]W, len(radices))
	for i, r := range radices {
		w, err := f.Constant(digits[i], r)
		if err != nil {
			return Bundle[W]{}, err
		}
		ws[i] = w
	}
	return New(ws), nil
}

// MixedRadixEvaluatorInputBundle creates one evaluator-input wire per
// radix, for use with MixedRadixAddition.
func MixedRadixEvaluatorInputBundle[W any](f fancy.Fancy[W], radices []uint16) (Bundle[W], error) {
	ws := make([]W, len(radices))
	for i, r := range radices {
		w, err := f.EvaluatorInput(r)
		if err != nil {
			return Bundle[W]{}, err
		}
		ws[i] = w
	}
	return New(ws), nil
}

// GarblerInputBundle creates one garbler-input wire per entry of primes.
func GarblerInputBundle[W any](f fancy.Fancy[W], primes []uint16) (Bundle[W], error) {
	ws := make([]W, len(primes))
	for i, p := range primes {
		w, err := f.GarblerInput(p)
		if err != nil {
			return Bundle[W]{}, err
		}
		ws[i] = w
	}
	return New(ws), nil
}

// EvaluatorInputBundle is the evaluator-leaf analogue of GarblerInputBundle.
func EvaluatorInputBundle[W any](f fancy.Fancy[W], primes []uint16) (Bundle[W], error) {
	ws := make([]W, len(primes))
	for i, p := range primes {
		w, err := f.EvaluatorInput(p)
		if err != nil {
			return Bundle[W]{}, err
		}
		ws[i] = w
	}
	return New(ws), nil
}

// ConstantBundle creates a bundle of known-value wires encoding x's CRT
// representation under primes.
func ConstantBundle[W any](f fancy.Fancy[W], x uint64, primes []uint16) (Bundle[W], error) {
	residues := CRT(primes, x)
	ws := make([]W, len(primes))
	for i, p := range primes {
		w, err := f.Constant(residues[i], p)
		if err != nil {
			return Bundle[W]{}, err
		}
		ws[i] = w
	}
	return New(ws), nil
}

// AddBundles adds x and y residue-wise. x and y must have the same moduli,
// in the same order.
func AddBundles[W any](f fancy.Fancy[W], x, y Bundle[W]) (Bundle[W], error) {
	if len(x.Wires) != len(y.Wires) {
		return Bundle[W]{}, fancy.ErrUnequalModuli
	}
	ws := make([]W, len(x.Wires))
	for i := range x.Wires {
		w, err := f.Add(x.Wires[i], y.Wires[i])
		if err != nil {
			return Bundle[W]{}, err
		}
		ws[i] = w
	}
	return New(ws), nil
}

// SubBundles subtracts y from x, residue-wise.
func SubBundles[W any](f fancy.Fancy[W], x, y Bundle[W]) (Bundle[W], error) {
	if len(x.Wires) != len(y.Wires) {
		return Bundle[W]{}, fancy.ErrUnequalModuli
	}
	ws := make([]W, len(x.Wires))
	for i := range x.Wires {
		w, err := f.Sub(x.Wires[i], y.Wires[i])
		if err != nil {
			return Bundle[W]{}, err
		}
		ws[i] = w
	}
	return New(ws), nil
}

// MulBundles multiplies x and y residue-wise.
func MulBundles[W any](f fancy.Fancy[W], x, y Bundle[W]) (Bundle[W], error) {
	if len(x.Wires) != len(y.Wires) {
		return Bundle[W]{}, fancy.ErrUnequalModuli
	}
	ws := make([]W, len(x.Wires))
	for i := range x.Wires {
		w, err := f.Mul(x.Wires[i], y.Wires[i])
		if err != nil {
			return Bundle[W]{}, err
		}
		ws[i] = w
	}
	return New(ws), nil
}

// CmulBundle multiplies every wire of x by the corresponding residue of the
// plaintext constant c (reduced under x's own moduli via CRT).
func CmulBundle[W any](f fancy.Fancy[W], x Bundle[W], c uint64) (Bundle[W], error) {
	primes := Moduli(f, x)
	residues := CRT(primes, c)
	ws := make([]W, len(x.Wires))
	for i, w := range x.Wires {
		cw, err := f.Cmul(w, residues[i])
		if err != nil {
			return Bundle[W]{}, err
		}
		ws[i] = cw
	}
	return New(ws), nil
}

// MixedRadixAddition sums several mixed-radix numbers (xs[k] is the k-th
// number's digit vector, digit 0 least significant; all must share the
// same per-position radices) digit by digit, propagating carries through a
// second, wider-radix carry chain — ported digit_carry/carry_carry/
// max_carry state machine for state machine.
func MixedRadixAddition[W any](f fancy.Fancy[W], xs []Bundle[W]) (Bundle[W], error) {
	nargs := len(xs)
	if nargs < 2 {
		return Bundle[W]{}, fancy.ErrInvalidArgNum
	}
	n := len(xs[0].Wires)
	for _, x := range xs {
		if len(x.Wires) != n {
			return Bundle[W]{}, fancy.ErrUnequalModuli
		}
	}

	var digitCarry, carryCarry *W
	var maxCarry uint16
	res := make([]W, 0, n)

	for i := 0; i < n; i++ {
		ds := make([]W, nargs)
		for j, x := range xs {
			ds[j] = x.Wires[i]
		}

		digitSum, err := fancy.AddMany(f, ds)
		if err != nil {
			return Bundle[W]{}, err
		}
		digit := digitSum
		if digitCarry != nil {
			digit, err = f.Add(digitSum, *digitCarry)
			if err != nil {
				return Bundle[W]{}, err
			}
		}

		if i < n-1 {
			q := f.Modulus(xs[0].Wires[i])
			maxValWide := uint64(nargs)*uint64(q-1) + uint64(maxCarry)
			if maxValWide >= pkgmath.MaxUint16 {
				return Bundle[W]{}, fmt.Errorf("bundle: mixed radix carry modulus overflow at digit %d (nargs=%d)", i, nargs)
			}
			maxVal := uint16(maxValWide)
			maxCarry = maxVal / q

			moddedDs := make([]W, nargs)
			for j, d := range ds {
				moddedDs[j], err = fancy.ModChange(f, d, maxVal+1)
				if err != nil {
					return Bundle[W]{}, err
				}
			}
			carrySum, err := fancy.AddMany(f, moddedDs)
			if err != nil {
				return Bundle[W]{}, err
			}
			carry := carrySum
			if carryCarry != nil {
				carry, err = f.Add(carrySum, *carryCarry)
				if err != nil {
					return Bundle[W]{}, err
				}
			}

			nextMod := f.Modulus(xs[0].Wires[i+1])
			tt := make([]uint16, maxVal+1)
			for k := range tt {
				tt[k] = (uint16(k) / q) % nextMod
			}
			dc, err := f.Proj(carry, nextMod, tt)
			if err != nil {
				return Bundle[W]{}, err
			}
			digitCarry = &dc

			nextMaxValWide := uint64(nargs)*uint64(nextMod-1) + uint64(maxCarry)
			if nextMaxValWide >= pkgmath.MaxUint16 {
				return Bundle[W]{}, fmt.Errorf("bundle: mixed radix carry modulus overflow at digit %d (nargs=%d)", i+1, nargs)
			}
			nextMaxVal := uint16(nextMaxValWide)

			if i < n-2 {
				if maxCarry < nextMod {
					cc, err := fancy.ModChange(f, dc, nextMaxVal+1)
					if err != nil {
						return Bundle[W]{}, err
					}
					carryCarry = &cc
				} else {
					tt2 := make([]uint16, maxVal+1)
					for k := range tt2 {
						tt2[k] = uint16(k) / q
					}
					cc, err := f.Proj(carry, nextMaxVal+1, tt2)
					if err != nil {
						return Bundle[W]{}, err
					}
					carryCarry = &cc
				}
			} else {
				carryCarry = nil
			}
		} else {
			digitCarry = nil
			carryCarry = nil
		}

		res = append(res, digit)
	}
	return New(res), nil
}
