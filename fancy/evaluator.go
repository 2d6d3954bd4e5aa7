package fancy

import (
	"fmt"

	"github.com/markkurossi/fancygarble/block"
	"github.com/markkurossi/fancygarble/gate"
	"github.com/markkurossi/fancygarble/message"
	"github.com/markkurossi/fancygarble/wire"
)

// Evaluator is the streaming counterpart to Garbler: every call pulls the
// next message.Message off recv and returns a *held* (resolved) label,
// never a zero-label. It must make the exact same sequence of Fancy calls
// as its paired Garbler; recv is responsible for turning
// UnencodedGarblerInput/UnencodedEvaluatorInput messages into resolved
// GarblerInput/EvaluatorInput ones (by adding cmul(delta, value) for
// whichever party's plaintext value applies), the same intercept the
// project's streaming test helper performs — a real deployment would
// instead deliver the evaluator's own input labels via oblivious transfer
// (package ot/otext) rather than plaintext interception.
type Evaluator struct {
	recv  func() (message.Message, error)
	tweak uint64

	outHashes [][]block.Block
	outLabels []wire.Wire
	outTweaks []uint64
}

// NewEvaluator creates an Evaluator pulling messages from recv.
func NewEvaluator(recv func() (message.Message, error)) *Evaluator {
	return &Evaluator{recv: recv}
}

func (e *Evaluator) nextTweak() uint64 {
	t := e.tweak
	e.tweak++
	return t
}

func (e *Evaluator) expect(tag message.Tag) (message.Message, error) {
	m, err := e.recv()
	if err != nil {
		return message.Message{}, err
	}
	if m.Tag != tag {
		return message.Message{}, fmt.Errorf("fancy: evaluator expected %v, got %v", tag, m.Tag)
	}
	return m, nil
}

func (e *Evaluator) GarblerInput(q uint16) (wire.Wire, error) {
	m, err := e.expect(message.TagGarblerInput)
	if err != nil {
		return wire.Wire{}, err
	}
	return m.Wire, nil
}

func (e *Evaluator) EvaluatorInput(q uint16) (wire.Wire, error) {
	m, err := e.expect(message.TagEvaluatorInput)
	if err != nil {
		return wire.Wire{}, err
	}
	return m.Wire, nil
}

func (e *Evaluator) Constant(value, q uint16) (wire.Wire, error) {
	m, err := e.expect(message.TagConstant)
	if err != nil {
		return wire.Wire{}, err
	}
	return m.Wire, nil
}

func (e *Evaluator) Add(x, y wire.Wire) (wire.Wire, error) { return x.Plus(y) }
func (e *Evaluator) Sub(x, y wire.Wire) (wire.Wire, error) { return x.Minus(y) }
func (e *Evaluator) Cmul(x wire.Wire, c uint16) (wire.Wire, error) {
	return x.Cmul(c), nil
}

func (e *Evaluator) Mul(x, y wire.Wire) (wire.Wire, error) {
	m, err := e.expect(message.TagGarbledGate)
	if err != nil {
		return wire.Wire{}, err
	}
	return gate.EvalMul(x, y, x.Mod, m.Table, e.nextTweak())
}

func (e *Evaluator) Proj(x wire.Wire, outMod uint16, tt []uint16) (wire.Wire, error) {
	m, err := e.expect(message.TagGarbledGate)
	if err != nil {
		return wire.Wire{}, err
	}
	return gate.EvalProj(x, outMod, m.Table, e.nextTweak())
}

func (e *Evaluator) Modulus(x wire.Wire) uint16 {
	return x.Mod
}

// Output records the decoding table for one output wire and the label it
// decodes against. Outputs are resolved in order by Decode once evaluation
// finishes.
func (e *Evaluator) Output(x wire.Wire) error {
	m, err := e.expect(message.TagOutputCiphertext)
	if err != nil {
		return err
	}
	e.outHashes = append(e.outHashes, m.Hashes)
	e.outLabels = append(e.outLabels, x)
	e.outTweaks = append(e.outTweaks, e.nextTweak())
	return nil
}

// Decode resolves every Output call made so far into plaintext values, in
// call order.
func (e *Evaluator) Decode() ([]uint16, error) {
	values := make([]uint16, len(e.outLabels))
	for i, label := range e.outLabels {
		v, err := gate.DecodeOutput(label, e.outTweaks[i], e.outHashes[i])
		if err != nil {
			return nil, fmt.Errorf("fancy: output %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}
