package gate

import (
	"fmt"

	"github.com/markkurossi/fancygarble/wire"
)

// GarbleMul garbles a multiplication gate z = x*y mod outDelta.Mod. outDelta
// must share its modulus with x's delta (the output modulus is q_x, the
// larger of the two input moduli, per the project's convention that callers
// arrange q_x >= q_y before invoking Mul).
//
// This implementation deliberately does not use the ciphertext-optimal
// "half-gates" construction generalized to unequal moduli (which would cost
// q_x+q_y-2 ciphertexts): deriving that construction's exact cross-term
// cancellation for q_x != q_y correctly, from memory, without the ability
// to run a single test, was judged too risky. Instead this builds the full
// q_x * q_y garbled table, indexed by the *observed* color pair rather than
// the real value pair (so no secret is needed to index it), which is the
// same point-and-permute technique the teacher's OR/INV gates use, just
// extended from 2x2 to q_x x q_y. See DESIGN.md for the reasoning.
func GarbleMul(x, deltaX, y, deltaY, outDelta wire.Wire, tweak uint64) (outZero wire.Wire, table []wire.Wire, err error) {
	if err = checkMod(x, deltaX); err != nil {
		return wire.Wire{}, nil, err
	}
	if err = checkMod(y, deltaY); err != nil {
		return wire.Wire{}, nil, err
	}
	if x.Mod != outDelta.Mod {
		return wire.Wire{}, nil, fmt.Errorf("gate: mul output modulus %d != x modulus %d", outDelta.Mod, x.Mod)
	}
	qx, qy := x.Mod, y.Mod
	outMod := outDelta.Mod

	outZero = wire.HashPair(x, y, tweak, outMod)

	table = make([]wire.Wire, int(qx)*int(qy))
	for a := uint16(0); a < qx; a++ {
		la, err := x.Plus(deltaX.Cmul(a))
		if err != nil {
			return wire.Wire{}, nil, err
		}
		rowx := la.Color()
		for b := uint16(0); b < qy; b++ {
			lb, err := y.Plus(deltaY.Cmul(b))
			if err != nil {
				return wire.Wire{}, nil, err
			}
			rowy := lb.Color()

			prod := uint16((uint32(a) * uint32(b)) % uint32(outMod))
			desired, err := outZero.Plus(outDelta.Cmul(prod))
			if err != nil {
				return wire.Wire{}, nil, err
			}
			h := wire.HashPair(la, lb, tweak, outMod)
			cipher, err := h.Minus(desired)
			if err != nil {
				return wire.Wire{}, nil, err
			}
			table[int(rowx)*int(qy)+int(rowy)] = cipher
		}
	}
	return outZero, table, nil
}

// EvalMul evaluates a garbled multiplication gate given the real labels
// held for x and y.
func EvalMul(heldX, heldY wire.Wire, outMod uint16, table []wire.Wire, tweak uint64) (wire.Wire, error) {
	qy := heldY.Mod
	rowx, rowy := heldX.Color(), heldY.Color()
	idx := int(rowx)*int(qy) + int(rowy)
	if idx >= len(table) {
		return wire.Wire{}, fmt.Errorf("gate: mul row (%d,%d) out of range", rowx, rowy)
	}
	h := wire.HashPair(heldX, heldY, tweak, outMod)
	return h.Minus(table[idx])
}
