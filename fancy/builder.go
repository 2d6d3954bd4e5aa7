package fancy

import "github.com/markkurossi/fancygarble/circuit"

// CircuitBuilder implements Fancy[circuit.WireID]: every call just records
// a Gate in the wrapped Circuit, with no cryptography at all. Used to
// describe a circuit once and either Eval it in plaintext or Garble it for
// real (package circuit).
type CircuitBuilder struct {
	C *circuit.Circuit
}

// NewCircuitBuilder returns a builder wrapping a fresh, empty Circuit.
func NewCircuitBuilder() *CircuitBuilder {
	return &CircuitBuilder{C: &circuit.Circuit{}}
}

func (b *CircuitBuilder) GarblerInput(q uint16) (circuit.WireID, error) {
	return b.C.GarblerInput(q), nil
}

func (b *CircuitBuilder) EvaluatorInput(q uint16) (circuit.WireID, error) {
	return b.C.EvaluatorInput(q), nil
}

func (b *CircuitBuilder) Constant(value, q uint16) (circuit.WireID, error) {
	return b.C.Constant(value, q), nil
}

func (b *CircuitBuilder) Add(x, y circuit.WireID) (circuit.WireID, error) {
	return b.C.Add(x, y)
}

func (b *CircuitBuilder) Sub(x, y circuit.WireID) (circuit.WireID, error) {
	return b.C.Sub(x, y)
}

func (b *CircuitBuilder) Cmul(x circuit.WireID, c uint16) (circuit.WireID, error) {
	return b.C.Cmul(x, c), nil
}

func (b *CircuitBuilder) Mul(x, y circuit.WireID) (circuit.WireID, error) {
	return b.C.Mul(x, y)
}

func (b *CircuitBuilder) Proj(x circuit.WireID, outMod uint16, tt []uint16) (circuit.WireID, error) {
	return b.C.ProjMod(x, outMod, tt)
}

func (b *CircuitBuilder) Output(x circuit.WireID) error {
	b.C.Output(x)
	return nil
}

func (b *CircuitBuilder) Modulus(x circuit.WireID) uint16 {
	return b.C.Mod(x)
}
