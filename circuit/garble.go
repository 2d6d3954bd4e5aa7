package circuit

import (
	"fmt"
	"io"

	"github.com/markkurossi/fancygarble/block"
	"github.com/markkurossi/fancygarble/gate"
	"github.com/markkurossi/fancygarble/wire"
)

// GarbledCircuit is the public, garbled form of a Circuit: the same
// topology (Circuit is itself public — only labels are secret), plus one
// ciphertext table per Proj/Mul gate (nil for the free ops) and the
// resolved label for every Constant gate (known to both parties, so it
// needs no concealment). Safe to serialize and hand to an evaluator
// alongside an Encoder-produced input labeling.
type GarbledCircuit struct {
	Circuit        *Circuit
	Tables         [][]wire.Wire // len(Circuit.Gates); populated for OpProj/OpMul only
	ConstantLabels []wire.Wire   // len(Circuit.Gates); populated for OpConstant only
}

// Encoder lets a garbler turn plaintext input values into the labels an
// evaluator can use, using the same zero-labels and deltas chosen during
// Garble. GarblerZeros/EvaluatorZeros are in gate declaration order (i.e.
// the order GarblerInput/EvaluatorInput were called while building the
// Circuit).
type Encoder struct {
	GarblerZeros   []wire.Wire
	EvaluatorZeros []wire.Wire
	Deltas         []wire.DeltaEntry
}

func (e *Encoder) delta(q uint16) (wire.Wire, error) {
	for _, d := range e.Deltas {
		if d.Mod == q {
			return d.Delta, nil
		}
	}
	return wire.Wire{}, fmt.Errorf("circuit: no delta for modulus %d", q)
}

// EncodeGarbler turns the garbler's own plaintext inputs into labels, one
// per GarblerZeros entry, in order.
func (e *Encoder) EncodeGarbler(values []uint16) ([]wire.Wire, error) {
	return e.encode(e.GarblerZeros, values)
}

// EncodeEvaluator turns the evaluator's plaintext inputs into labels. In a
// real protocol these are never sent directly (the evaluator fetches the
// right one via oblivious transfer, see package ot/otext); this exists for
// the plaintext-labeled test and local-evaluation paths.
func (e *Encoder) EncodeEvaluator(values []uint16) ([]wire.Wire, error) {
	return e.encode(e.EvaluatorZeros, values)
}

func (e *Encoder) encode(zeros []wire.Wire, values []uint16) ([]wire.Wire, error) {
	if len(values) != len(zeros) {
		return nil, fmt.Errorf("circuit: got %d input values, want %d", len(values), len(zeros))
	}
	out := make([]wire.Wire, len(zeros))
	for i, zero := range zeros {
		if values[i] >= zero.Mod {
			return nil, fmt.Errorf("circuit: input %d out of range for modulus %d", values[i], zero.Mod)
		}
		delta, err := e.delta(zero.Mod)
		if err != nil {
			return nil, err
		}
		label, err := zero.Plus(delta.Cmul(values[i]))
		if err != nil {
			return nil, err
		}
		out[i] = label
	}
	return out, nil
}

// Decoder holds one digest array per output wire, in Circuit.Outputs order,
// letting the evaluator map the final held labels back to plaintext values
// without ever learning any intermediate wire's real value.
type Decoder struct {
	OutputHashes [][]block.Block
}

// Decode maps evaluated output labels (in Circuit.Outputs order, as
// returned by Evaluate) back to plaintext values.
func (d *Decoder) Decode(outputs []wire.Wire) ([]uint16, error) {
	if len(outputs) != len(d.OutputHashes) {
		return nil, fmt.Errorf("circuit: got %d output labels, want %d", len(outputs), len(d.OutputHashes))
	}
	values := make([]uint16, len(outputs))
	for i, label := range outputs {
		v, err := gate.DecodeOutput(label, uint64(i), d.OutputHashes[i])
		if err != nil {
			return nil, fmt.Errorf("circuit: output %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// Garble garbles every gate of c in declaration order, drawing fresh
// randomness from rng and one Δ per modulus from dt (shared across gates so
// same-modulus wires compose freely under Add/Sub/Cmul). It returns the
// public GarbledCircuit plus the Encoder/Decoder the two parties need to
// turn plaintext inputs into labels and final labels back into plaintext
// outputs.
func Garble(c *Circuit, dt *wire.DeltaTable, rng io.Reader) (*GarbledCircuit, *Encoder, *Decoder, error) {
	zeros := make([]wire.Wire, len(c.Gates))
	gc := &GarbledCircuit{
		Circuit:        c,
		Tables:         make([][]wire.Wire, len(c.Gates)),
		ConstantLabels: make([]wire.Wire, len(c.Gates)),
	}
	enc := &Encoder{}

	for i, g := range c.Gates {
		var err error
		switch g.Op {
		case OpGarblerInput:
			zeros[i], err = wire.Rand(rng, g.Mod)
			if err != nil {
				return nil, nil, nil, err
			}
			if _, err = dt.Get(g.Mod); err != nil {
				return nil, nil, nil, err
			}
			enc.GarblerZeros = append(enc.GarblerZeros, zeros[i])

		case OpEvaluatorInput:
			zeros[i], err = wire.Rand(rng, g.Mod)
			if err != nil {
				return nil, nil, nil, err
			}
			if _, err = dt.Get(g.Mod); err != nil {
				return nil, nil, nil, err
			}
			enc.EvaluatorZeros = append(enc.EvaluatorZeros, zeros[i])

		case OpConstant:
			zeros[i], err = wire.Rand(rng, g.Mod)
			if err != nil {
				return nil, nil, nil, err
			}
			delta, err := dt.Get(g.Mod)
			if err != nil {
				return nil, nil, nil, err
			}
			gc.ConstantLabels[i], err = zeros[i].Plus(delta.Cmul(g.Value))
			if err != nil {
				return nil, nil, nil, err
			}

		case OpAdd:
			zeros[i], err = zeros[g.X].Plus(zeros[g.Y])
			if err != nil {
				return nil, nil, nil, err
			}

		case OpSub:
			zeros[i], err = zeros[g.X].Minus(zeros[g.Y])
			if err != nil {
				return nil, nil, nil, err
			}

		case OpCmul:
			zeros[i] = zeros[g.X].Cmul(g.C)

		case OpProj:
			delta, err := dt.Get(zeros[g.X].Mod)
			if err != nil {
				return nil, nil, nil, err
			}
			outDelta, err := dt.Get(g.Mod)
			if err != nil {
				return nil, nil, nil, err
			}
			zeros[i], gc.Tables[i], err = gate.GarbleProj(zeros[g.X], delta, outDelta, g.TT, uint64(i))
			if err != nil {
				return nil, nil, nil, err
			}

		case OpMul:
			deltaX, err := dt.Get(zeros[g.X].Mod)
			if err != nil {
				return nil, nil, nil, err
			}
			deltaY, err := dt.Get(zeros[g.Y].Mod)
			if err != nil {
				return nil, nil, nil, err
			}
			outDelta, err := dt.Get(g.Mod)
			if err != nil {
				return nil, nil, nil, err
			}
			zeros[i], gc.Tables[i], err = gate.GarbleMul(zeros[g.X], deltaX, zeros[g.Y], deltaY, outDelta, uint64(i))
			if err != nil {
				return nil, nil, nil, err
			}

		default:
			return nil, nil, nil, fmt.Errorf("circuit: cannot garble op %v at gate %d", g.Op, i)
		}
	}

	enc.Deltas = dt.Snapshot()

	dec := &Decoder{OutputHashes: make([][]block.Block, len(c.Outputs))}
	for oi, w := range c.Outputs {
		delta, err := dt.Get(c.Mod(w))
		if err != nil {
			return nil, nil, nil, err
		}
		dec.OutputHashes[oi], err = gate.GarbleOutput(zeros[w], delta, uint64(oi))
		if err != nil {
			return nil, nil, nil, err
		}
	}

	return gc, enc, dec, nil
}

// Evaluate runs a GarbledCircuit over held input labels (produced by the
// matching Encoder, or delivered one-by-one via oblivious transfer for
// evaluator inputs in a real protocol), returning the held output labels in
// Circuit.Outputs order for a Decoder to turn into plaintext.
func Evaluate(gc *GarbledCircuit, garblerLabels, evaluatorLabels []wire.Wire) ([]wire.Wire, error) {
	c := gc.Circuit
	held := make([]wire.Wire, len(c.Gates))
	var gi, ei int

	for i, g := range c.Gates {
		var err error
		switch g.Op {
		case OpGarblerInput:
			if gi >= len(garblerLabels) {
				return nil, fmt.Errorf("circuit: not enough garbler labels")
			}
			held[i] = garblerLabels[gi]
			gi++

		case OpEvaluatorInput:
			if ei >= len(evaluatorLabels) {
				return nil, fmt.Errorf("circuit: not enough evaluator labels")
			}
			held[i] = evaluatorLabels[ei]
			ei++

		case OpConstant:
			held[i] = gc.ConstantLabels[i]

		case OpAdd:
			held[i], err = held[g.X].Plus(held[g.Y])
			if err != nil {
				return nil, err
			}

		case OpSub:
			held[i], err = held[g.X].Minus(held[g.Y])
			if err != nil {
				return nil, err
			}

		case OpCmul:
			held[i] = held[g.X].Cmul(g.C)

		case OpProj:
			held[i], err = gate.EvalProj(held[g.X], g.Mod, gc.Tables[i], uint64(i))
			if err != nil {
				return nil, fmt.Errorf("circuit: gate %d: %w", i, err)
			}

		case OpMul:
			held[i], err = gate.EvalMul(held[g.X], held[g.Y], g.Mod, gc.Tables[i], uint64(i))
			if err != nil {
				return nil, fmt.Errorf("circuit: gate %d: %w", i, err)
			}

		default:
			return nil, fmt.Errorf("circuit: cannot evaluate op %v at gate %d", g.Op, i)
		}
	}

	out := make([]wire.Wire, len(c.Outputs))
	for i, w := range c.Outputs {
		out[i] = held[w]
	}
	return out, nil
}
