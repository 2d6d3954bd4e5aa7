package circuit

import "fmt"

// Eval is the plaintext oracle: it evaluates a Circuit directly over
// Z_q values, with no cryptography at all, and is the correctness
// reference that garbled evaluation is checked against in tests.
func (c *Circuit) Eval(garblerInputs, evaluatorInputs []uint16) ([]uint16, error) {
	values := make([]uint16, len(c.Gates))
	var gi, ei int

	for i, g := range c.Gates {
		switch g.Op {
		case OpGarblerInput:
			if gi >= len(garblerInputs) {
				return nil, fmt.Errorf("circuit: not enough garbler inputs")
			}
			if garblerInputs[gi] >= g.Mod {
				return nil, fmt.Errorf("circuit: garbler input %d out of range for modulus %d", garblerInputs[gi], g.Mod)
			}
			values[i] = garblerInputs[gi]
			gi++

		case OpEvaluatorInput:
			if ei >= len(evaluatorInputs) {
				return nil, fmt.Errorf("circuit: not enough evaluator inputs")
			}
			if evaluatorInputs[ei] >= g.Mod {
				return nil, fmt.Errorf("circuit: evaluator input %d out of range for modulus %d", evaluatorInputs[ei], g.Mod)
			}
			values[i] = evaluatorInputs[ei]
			ei++

		case OpConstant:
			values[i] = g.Value

		case OpAdd:
			values[i] = (values[g.X] + values[g.Y]) % g.Mod

		case OpSub:
			values[i] = (values[g.X] + g.Mod - values[g.Y]) % g.Mod

		case OpCmul:
			values[i] = uint16((uint32(values[g.X]) * uint32(g.C)) % uint32(g.Mod))

		case OpProj:
			values[i] = g.TT[values[g.X]]

		case OpMul:
			values[i] = uint16((uint32(values[g.X]) * uint32(values[g.Y])) % uint32(g.Mod))

		default:
			return nil, fmt.Errorf("circuit: invalid op %v at gate %d", g.Op, i)
		}
	}

	out := make([]uint16, len(c.Outputs))
	for i, w := range c.Outputs {
		out[i] = values[w]
	}
	return out, nil
}
