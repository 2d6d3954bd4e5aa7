package gate

import (
	"fmt"

	"github.com/markkurossi/fancygarble/wire"
)

// GarbleProj garbles a projection (arbitrary truth table) gate: output =
// tt[x] for x drawn from Z_q, q = zero.Mod, mapped into Z_outMod via tt
// (one entry per input value). outDelta is the circuit-wide Δ for outMod
// (from the same wire.DeltaTable every other gate over that modulus uses),
// so the returned output wire composes freely with the rest of the circuit.
// tweak must be unique to this gate.
//
// The row whose observed color is 0 is never published: its ciphertext is
// provably the all-zero block, so table has exactly q-1 entries, one per
// nonzero row, in row order (table[row-1] for row = 1..q-1).
//
// Row/value relationship: for real input value v, the label zero +
// cmul(delta, v) has color (Color(zero)+v) mod q. Indexing the table by
// that observed color (rather than by v, which only the garbler knows)
// lets the evaluator look itself up without learning Color(zero).
func GarbleProj(zero, delta wire.Wire, outDelta wire.Wire, tt []uint16, tweak uint64) (outZero wire.Wire, table []wire.Wire, err error) {
	if err = checkMod(zero, delta); err != nil {
		return wire.Wire{}, nil, err
	}
	q := zero.Mod
	outMod := outDelta.Mod
	if len(tt) != int(q) {
		return wire.Wire{}, nil, fmt.Errorf("gate: proj truth table has %d entries, want %d", len(tt), q)
	}

	colorZero := zero.Color()
	rstar := (q - colorZero) % q // real value whose color is 0

	lrstar, err := zero.Plus(delta.Cmul(rstar))
	if err != nil {
		return wire.Wire{}, nil, err
	}
	h0 := lrstar.HashBack(tweak, outMod)
	outZero, err = h0.Minus(outDelta.Cmul(tt[rstar]))
	if err != nil {
		return wire.Wire{}, nil, err
	}

	table = make([]wire.Wire, q-1)
	for row := uint16(1); row < q; row++ {
		v := (row + q - colorZero) % q
		lv, err := zero.Plus(delta.Cmul(v))
		if err != nil {
			return wire.Wire{}, nil, err
		}
		outLabel, err := outZero.Plus(outDelta.Cmul(tt[v]))
		if err != nil {
			return wire.Wire{}, nil, err
		}
		cipher, err := lv.HashBack(tweak, outMod).Minus(outLabel)
		if err != nil {
			return wire.Wire{}, nil, err
		}
		table[row-1] = cipher
	}
	return outZero, table, nil
}

// EvalProj evaluates a garbled projection gate: given the real label held
// for the input wire and the garbled table GarbleProj produced, recovers
// the output label for whatever real value `held` encodes. outMod must
// match the modulus used when garbling (recoverable from any table entry,
// or from the caller's circuit metadata when the table is empty).
func EvalProj(held wire.Wire, outMod uint16, table []wire.Wire, tweak uint64) (wire.Wire, error) {
	row := held.Color()
	h := held.HashBack(tweak, outMod)
	if row == 0 {
		return h, nil
	}
	if int(row)-1 >= len(table) {
		return wire.Wire{}, fmt.Errorf("gate: proj row %d out of range (table has %d entries)", row, len(table))
	}
	return h.Minus(table[row-1])
}
