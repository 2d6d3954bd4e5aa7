package report

import (
	"bytes"
	"testing"

	"github.com/markkurossi/fancygarble/fancy"
)

func TestGatherCountsMulAndProj(t *testing.T) {
	b := fancy.NewCircuitBuilder()
	x, _ := b.GarblerInput(7)
	y, _ := b.EvaluatorInput(5)
	z, err := b.Mul(x, y)
	if err != nil {
		t.Fatal(err)
	}
	w, err := b.Proj(z, 2, []uint16{0, 1, 0, 1, 0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Output(w); err != nil {
		t.Fatal(err)
	}

	s := Gather("test", b.C)
	if s.Mul != 1 || s.MulCiphertexts != 7*5 {
		t.Fatalf("mul stats: got Mul=%d MulCiphertexts=%d, want 1, 35", s.Mul, s.MulCiphertexts)
	}
	if s.Proj != 1 || s.ProjCiphertexts != 6 {
		t.Fatalf("proj stats: got Proj=%d ProjCiphertexts=%d, want 1, 6", s.Proj, s.ProjCiphertexts)
	}
	if s.Outputs != 1 {
		t.Fatalf("outputs: got %d, want 1", s.Outputs)
	}
	if s.Gates() != 2 {
		t.Fatalf("Gates(): got %d, want 2", s.Gates())
	}
	if s.Ciphertexts() != 35+6 {
		t.Fatalf("Ciphertexts(): got %d, want %d", s.Ciphertexts(), 35+6)
	}
}

func TestPrintDoesNotPanic(t *testing.T) {
	b := fancy.NewCircuitBuilder()
	x, _ := b.GarblerInput(2)
	y, _ := b.EvaluatorInput(2)
	z, err := b.Add(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Output(z); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	Print(&buf, []Stats{Gather("adder", b.C)})
	if buf.Len() == 0 {
		t.Fatal("expected non-empty table output")
	}
}
