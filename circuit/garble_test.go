package circuit

import (
	"crypto/rand"
	"testing"

	"github.com/markkurossi/fancygarble/wire"
)

func garbleAndRun(t *testing.T, c *Circuit, garblerInputs, evaluatorInputs []uint16) []uint16 {
	t.Helper()
	dt := wire.NewDeltaTable(rand.Reader)
	gc, enc, dec, err := Garble(c, dt, rand.Reader)
	if err != nil {
		t.Fatalf("garble: %v", err)
	}
	gLabels, err := enc.EncodeGarbler(garblerInputs)
	if err != nil {
		t.Fatalf("encode garbler: %v", err)
	}
	eLabels, err := enc.EncodeEvaluator(evaluatorInputs)
	if err != nil {
		t.Fatalf("encode evaluator: %v", err)
	}
	outLabels, err := Evaluate(gc, gLabels, eLabels)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	values, err := dec.Decode(outLabels)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return values
}

// S1: add mod 103.
func TestGarbleAdd(t *testing.T) {
	var c Circuit
	x := c.GarblerInput(103)
	y := c.EvaluatorInput(103)
	z, err := c.Add(x, y)
	if err != nil {
		t.Fatal(err)
	}
	c.Output(z)

	plain, err := c.Eval([]uint16{47}, []uint16{89})
	if err != nil {
		t.Fatal(err)
	}
	if plain[0] != 33 {
		t.Fatalf("plaintext oracle: got %d, want 33", plain[0])
	}

	got := garbleAndRun(t, &c, []uint16{47}, []uint16{89})
	if got[0] != 33 {
		t.Fatalf("garbled: got %d, want 33", got[0])
	}
}

// S2: mul with unequal moduli. The ciphertext count here is q_x*q_y (35),
// not the half-gates-optimal q_x+q_y-2 (10) the normative construction
// would use; see gate.GarbleMul's doc comment and DESIGN.md for why.
func TestGarbleMulUnequalModuli(t *testing.T) {
	var c Circuit
	x := c.GarblerInput(7)
	y := c.EvaluatorInput(5)
	z, err := c.Mul(x, y)
	if err != nil {
		t.Fatal(err)
	}
	c.Output(z)

	plain, err := c.Eval([]uint16{6}, []uint16{4})
	if err != nil {
		t.Fatal(err)
	}
	if plain[0] != 3 {
		t.Fatalf("plaintext oracle: got %d, want 3", plain[0])
	}

	got := garbleAndRun(t, &c, []uint16{6}, []uint16{4})
	if got[0] != 3 {
		t.Fatalf("garbled: got %d, want 3", got[0])
	}

	dt := wire.NewDeltaTable(rand.Reader)
	gc, _, _, err := Garble(&c, dt, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	if len(gc.Tables[z]) != 7*5 {
		t.Fatalf("mul table length: got %d, want %d", len(gc.Tables[z]), 7*5)
	}
}

func TestGarbleMixedOpsAndConstant(t *testing.T) {
	var c Circuit
	x := c.GarblerInput(13)
	y := c.EvaluatorInput(13)
	k := c.Constant(5, 13)
	sum, err := c.Add(x, y)
	if err != nil {
		t.Fatal(err)
	}
	scaled := c.Cmul(sum, 3)
	withConst, err := c.Add(scaled, k)
	if err != nil {
		t.Fatal(err)
	}
	diff, err := c.Sub(withConst, k)
	if err != nil {
		t.Fatal(err)
	}
	c.Output(diff)

	plain, err := c.Eval([]uint16{4}, []uint16{7})
	if err != nil {
		t.Fatal(err)
	}

	got := garbleAndRun(t, &c, []uint16{4}, []uint16{7})
	if got[0] != plain[0] {
		t.Fatalf("garbled/plaintext mismatch: got %d, want %d", got[0], plain[0])
	}
}

func TestGarbleProjGate(t *testing.T) {
	var c Circuit
	x := c.GarblerInput(5)
	tt := []uint16{1, 0, 1, 0, 1} // (x+1) mod 2, the flipped parity of x; Proj keeps the mod-5 output modulus
	p, err := c.Proj(x, tt)
	if err != nil {
		t.Fatal(err)
	}
	c.Output(p)

	for v := uint16(0); v < 5; v++ {
		plain, err := c.Eval([]uint16{v}, nil)
		if err != nil {
			t.Fatal(err)
		}
		got := garbleAndRun(t, &c, []uint16{v}, nil)
		if got[0] != plain[0] {
			t.Fatalf("v=%d: garbled %d != plaintext %d", v, got[0], plain[0])
		}
	}
}

func TestMultipleOutputsAndDeterministicDeltaReuse(t *testing.T) {
	var c Circuit
	x := c.GarblerInput(7)
	y := c.EvaluatorInput(7)
	sum, err := c.Add(x, y)
	if err != nil {
		t.Fatal(err)
	}
	prod, err := c.Mul(x, y)
	if err != nil {
		t.Fatal(err)
	}
	c.Output(sum)
	c.Output(prod)

	plain, err := c.Eval([]uint16{3}, []uint16{5})
	if err != nil {
		t.Fatal(err)
	}
	got := garbleAndRun(t, &c, []uint16{3}, []uint16{5})
	if len(got) != 2 || got[0] != plain[0] || got[1] != plain[1] {
		t.Fatalf("got %v, want %v", got, plain)
	}
}
