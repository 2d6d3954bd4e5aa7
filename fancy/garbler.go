package fancy

import (
	"io"

	"github.com/markkurossi/fancygarble/gate"
	"github.com/markkurossi/fancygarble/message"
	"github.com/markkurossi/fancygarble/wire"
)

// Garbler is the streaming, crypto-eager Fancy[wire.Wire] implementation:
// every call returns the *zero-label* for the produced wire (never a
// resolved value — the garbler never learns which real residue a wire ends
// up encoding) and, for gates that need ciphertexts, emits a
// message.Message through Send describing the public part of that gate.
//
// A Garbler and an Evaluator are only meaningfully paired when both run
// the exact same sequence of Fancy calls: there is no per-message wire id,
// so synchronization is entirely by call order, mirroring the
// streaming_test helper in the project this is modeled on.
type Garbler struct {
	rng   io.Reader
	dt    *wire.DeltaTable
	send  func(message.Message) error
	tweak uint64
}

// NewGarbler creates a Garbler drawing fresh randomness from rng and Δs
// from dt, sending every message it produces to send.
func NewGarbler(rng io.Reader, dt *wire.DeltaTable, send func(message.Message) error) *Garbler {
	return &Garbler{rng: rng, dt: dt, send: send}
}

func (g *Garbler) nextTweak() uint64 {
	t := g.tweak
	g.tweak++
	return t
}

func (g *Garbler) GarblerInput(q uint16) (wire.Wire, error) {
	zero, err := wire.Rand(g.rng, q)
	if err != nil {
		return wire.Wire{}, err
	}
	delta, err := g.dt.Get(q)
	if err != nil {
		return wire.Wire{}, err
	}
	if err := g.send(message.UnencodedGarblerInput(zero, delta)); err != nil {
		return wire.Wire{}, err
	}
	return zero, nil
}

func (g *Garbler) EvaluatorInput(q uint16) (wire.Wire, error) {
	zero, err := wire.Rand(g.rng, q)
	if err != nil {
		return wire.Wire{}, err
	}
	delta, err := g.dt.Get(q)
	if err != nil {
		return wire.Wire{}, err
	}
	if err := g.send(message.UnencodedEvaluatorInput(zero, delta)); err != nil {
		return wire.Wire{}, err
	}
	return zero, nil
}

func (g *Garbler) Constant(value, q uint16) (wire.Wire, error) {
	zero, err := wire.Rand(g.rng, q)
	if err != nil {
		return wire.Wire{}, err
	}
	delta, err := g.dt.Get(q)
	if err != nil {
		return wire.Wire{}, err
	}
	label, err := zero.Plus(delta.Cmul(value))
	if err != nil {
		return wire.Wire{}, err
	}
	if err := g.send(message.Constant(value, label)); err != nil {
		return wire.Wire{}, err
	}
	return zero, nil
}

// Add, Sub and Cmul are free: both Garbler and Evaluator compute them
// locally from whatever they already hold, so no message crosses the wire.
func (g *Garbler) Add(x, y wire.Wire) (wire.Wire, error) { return x.Plus(y) }
func (g *Garbler) Sub(x, y wire.Wire) (wire.Wire, error) { return x.Minus(y) }
func (g *Garbler) Cmul(x wire.Wire, c uint16) (wire.Wire, error) {
	return x.Cmul(c), nil
}

func (g *Garbler) Mul(x, y wire.Wire) (wire.Wire, error) {
	deltaX, err := g.dt.Get(x.Mod)
	if err != nil {
		return wire.Wire{}, err
	}
	deltaY, err := g.dt.Get(y.Mod)
	if err != nil {
		return wire.Wire{}, err
	}
	outDelta, err := g.dt.Get(x.Mod)
	if err != nil {
		return wire.Wire{}, err
	}
	outZero, table, err := gate.GarbleMul(x, deltaX, y, deltaY, outDelta, g.nextTweak())
	if err != nil {
		return wire.Wire{}, err
	}
	if err := g.send(message.GarbledGate(table)); err != nil {
		return wire.Wire{}, err
	}
	return outZero, nil
}

func (g *Garbler) Proj(x wire.Wire, outMod uint16, tt []uint16) (wire.Wire, error) {
	delta, err := g.dt.Get(x.Mod)
	if err != nil {
		return wire.Wire{}, err
	}
	outDelta, err := g.dt.Get(outMod)
	if err != nil {
		return wire.Wire{}, err
	}
	outZero, table, err := gate.GarbleProj(x, delta, outDelta, tt, g.nextTweak())
	if err != nil {
		return wire.Wire{}, err
	}
	if err := g.send(message.GarbledGate(table)); err != nil {
		return wire.Wire{}, err
	}
	return outZero, nil
}

func (g *Garbler) Output(x wire.Wire) error {
	delta, err := g.dt.Get(x.Mod)
	if err != nil {
		return err
	}
	hashes, err := gate.GarbleOutput(x, delta, g.nextTweak())
	if err != nil {
		return err
	}
	return g.send(message.OutputCiphertext(hashes))
}

func (g *Garbler) Modulus(x wire.Wire) uint16 {
	return x.Mod
}
