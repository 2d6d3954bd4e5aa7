// Package circuit implements the non-streaming circuit representation: an
// ordered list of Gates referencing earlier gates by index, a plaintext
// evaluation oracle used as the correctness reference in tests, and the
// garbled form (GarbledCircuit, Encoder, Decoder) produced by garbling a
// Circuit all at once (as opposed to the streaming Garbler/Evaluator in
// package fancy, which garble gate-by-gate over a message channel).
package circuit

import "fmt"

// Op identifies a Gate's operation.
type Op int

// Gate operations.
const (
	OpGarblerInput Op = iota
	OpEvaluatorInput
	OpConstant
	OpAdd
	OpSub
	OpCmul
	OpProj
	OpMul
	OpOutput
)

func (op Op) String() string {
	switch op {
	case OpGarblerInput:
		return "GarblerInput"
	case OpEvaluatorInput:
		return "EvaluatorInput"
	case OpConstant:
		return "Constant"
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpCmul:
		return "Cmul"
	case OpProj:
		return "Proj"
	case OpMul:
		return "Mul"
	case OpOutput:
		return "Output"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// WireID indexes a Gate within a Circuit; gate i produces wire i.
type WireID int

// Gate is one operation in a Circuit. Mod always holds the modulus of the
// wire this gate produces (for leaves, the declared modulus; for every
// other op, derived from its inputs at construction time), so later gates
// can validate modulus-matching without re-walking the DAG.
type Gate struct {
	Op  Op
	Mod uint16

	Value uint16 // Constant

	// Backward references. X, Y for Add/Sub/Mul (Y unused otherwise); X for
	// Cmul/Proj/Output.
	X, Y WireID

	C uint16   // Cmul
	TT []uint16 // Proj
}

// Circuit is an ordered, backward-referencing DAG of Gates.
type Circuit struct {
	Gates   []Gate
	Outputs []WireID
}

func (c *Circuit) add(g Gate) WireID {
	c.Gates = append(c.Gates, g)
	return WireID(len(c.Gates) - 1)
}

// Mod returns the modulus of the wire x produces.
func (c *Circuit) Mod(x WireID) uint16 {
	return c.Gates[x].Mod
}

// GarblerInput appends a garbler-input leaf of modulus q.
func (c *Circuit) GarblerInput(q uint16) WireID {
	return c.add(Gate{Op: OpGarblerInput, Mod: q})
}

// EvaluatorInput appends an evaluator-input leaf of modulus q.
func (c *Circuit) EvaluatorInput(q uint16) WireID {
	return c.add(Gate{Op: OpEvaluatorInput, Mod: q})
}

// Constant appends a known-value leaf.
func (c *Circuit) Constant(value, q uint16) WireID {
	return c.add(Gate{Op: OpConstant, Mod: q, Value: value})
}

// Add appends x+y mod q (x and y must share a modulus).
func (c *Circuit) Add(x, y WireID) (WireID, error) {
	if c.Mod(x) != c.Mod(y) {
		return 0, fmt.Errorf("circuit: Add modulus mismatch %d != %d", c.Mod(x), c.Mod(y))
	}
	return c.add(Gate{Op: OpAdd, Mod: c.Mod(x), X: x, Y: y}), nil
}

// Sub appends x-y mod q.
func (c *Circuit) Sub(x, y WireID) (WireID, error) {
	if c.Mod(x) != c.Mod(y) {
		return 0, fmt.Errorf("circuit: Sub modulus mismatch %d != %d", c.Mod(x), c.Mod(y))
	}
	return c.add(Gate{Op: OpSub, Mod: c.Mod(x), X: x, Y: y}), nil
}

// Cmul appends c*x mod q.
func (c *Circuit) Cmul(x WireID, cst uint16) WireID {
	return c.add(Gate{Op: OpCmul, Mod: c.Mod(x), X: x, C: cst})
}

// Proj appends a projection gate mapping x's modulus to len(tt) output
// values via tt.
func (c *Circuit) Proj(x WireID, tt []uint16) (WireID, error) {
	if len(tt) != int(c.Mod(x)) {
		return 0, fmt.Errorf("circuit: Proj truth table has %d entries, want %d", len(tt), c.Mod(x))
	}
	return c.add(Gate{Op: OpProj, Mod: uint16(len(tt)), X: x, TT: tt}), nil
}

// ProjMod is like Proj but the output modulus is given explicitly (when it
// exceeds the number of distinct truth-table values actually needed, e.g.
// lifting into a larger modulus via the identity table).
func (c *Circuit) ProjMod(x WireID, outMod uint16, tt []uint16) (WireID, error) {
	if len(tt) != int(c.Mod(x)) {
		return 0, fmt.Errorf("circuit: Proj truth table has %d entries, want %d", len(tt), c.Mod(x))
	}
	return c.add(Gate{Op: OpProj, Mod: outMod, X: x, TT: tt}), nil
}

// Mul appends x*y mod q_x (q_x = the modulus of x, which must be >= y's).
func (c *Circuit) Mul(x, y WireID) (WireID, error) {
	if c.Mod(x) < c.Mod(y) {
		return 0, fmt.Errorf("circuit: Mul requires q_x >= q_y, got %d < %d", c.Mod(x), c.Mod(y))
	}
	return c.add(Gate{Op: OpMul, Mod: c.Mod(x), X: x, Y: y}), nil
}

// Output marks x as a circuit output, in declaration order.
func (c *Circuit) Output(x WireID) {
	c.Outputs = append(c.Outputs, x)
}
