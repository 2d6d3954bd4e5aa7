// Package report builds garbling statistics (gate counts, ciphertext
// counts, wire counts) for a circuit.Circuit and renders them as a table.
package report

import (
	"fmt"
	"io"

	"github.com/markkurossi/fancygarble/circuit"
	"github.com/markkurossi/tabulate"
)

// Stats tallies a Circuit's gates by kind and the ciphertexts its garbling
// will produce, without actually garbling it.
type Stats struct {
	Name string

	GarblerInputs   int
	EvaluatorInputs int
	Constants       int
	Add             int
	Sub             int
	Cmul            int
	Proj            int
	Mul             int
	Outputs         int

	// ProjCiphertexts and MulCiphertexts are the total row counts
	// circuit.Garble will write into GarbledCircuit.Tables: q_x-1 rows per
	// Proj gate (point-and-permute elides the 0th row) and q_x*q_y rows
	// per Mul gate (see DESIGN.md's note on the Mul ciphertext-count
	// deviation from a half-gates construction).
	ProjCiphertexts int
	MulCiphertexts  int

	Wires int
}

// Gather walks c's gates and computes its Stats. name labels the row when
// the stats are tabulated alongside others (e.g. the file c was parsed
// from).
func Gather(name string, c *circuit.Circuit) Stats {
	s := Stats{Name: name, Wires: len(c.Gates), Outputs: len(c.Outputs)}
	for _, g := range c.Gates {
		switch g.Op {
		case circuit.OpGarblerInput:
			s.GarblerInputs++
		case circuit.OpEvaluatorInput:
			s.EvaluatorInputs++
		case circuit.OpConstant:
			s.Constants++
		case circuit.OpAdd:
			s.Add++
		case circuit.OpSub:
			s.Sub++
		case circuit.OpCmul:
			s.Cmul++
		case circuit.OpProj:
			s.Proj++
			// gate.GarbleProj elides row 0 via point-and-permute, so the
			// table has one row per remaining value of x's input modulus.
			s.ProjCiphertexts += int(c.Mod(g.X)) - 1
		case circuit.OpMul:
			s.Mul++
			s.MulCiphertexts += int(c.Mod(g.X)) * int(c.Mod(g.Y))
		}
	}
	return s
}

// Gates returns the total number of non-free gates (Proj and Mul are the
// only ones that cost a ciphertext table; Add/Sub/Cmul are free).
func (s Stats) Gates() int {
	return s.Proj + s.Mul
}

// Ciphertexts returns the total ciphertext row count across every Proj and
// Mul gate in the circuit.
func (s Stats) Ciphertexts() int {
	return s.ProjCiphertexts + s.MulCiphertexts
}

// Print renders one or more Stats as a table, grounded on the teacher's
// own apps/garbled/objdump.go circuit-dump table.
func Print(w io.Writer, stats []Stats) {
	tab := tabulate.New(tabulate.Github)
	tab.Header("Name")
	tab.Header("Inputs").SetAlign(tabulate.MR)
	tab.Header("Const").SetAlign(tabulate.MR)
	tab.Header("Add").SetAlign(tabulate.MR)
	tab.Header("Sub").SetAlign(tabulate.MR)
	tab.Header("Cmul").SetAlign(tabulate.MR)
	tab.Header("Proj").SetAlign(tabulate.MR)
	tab.Header("Mul").SetAlign(tabulate.MR)
	tab.Header("Gates").SetAlign(tabulate.MR)
	tab.Header("Ciphertexts").SetAlign(tabulate.MR)
	tab.Header("Wires").SetAlign(tabulate.MR)
	tab.Header("Outputs").SetAlign(tabulate.MR)

	for _, s := range stats {
		row := tab.Row()
		row.Column(s.Name)
		row.Column(fmt.Sprintf("%d", s.GarblerInputs+s.EvaluatorInputs))
		row.Column(fmt.Sprintf("%d", s.Constants))
		row.Column(fmt.Sprintf("%d", s.Add))
		row.Column(fmt.Sprintf("%d", s.Sub))
		row.Column(fmt.Sprintf("%d", s.Cmul))
		row.Column(fmt.Sprintf("%d", s.Proj))
		row.Column(fmt.Sprintf("%d", s.Mul))
		row.Column(fmt.Sprintf("%d", s.Gates()))
		row.Column(fmt.Sprintf("%d", s.Ciphertexts()))
		row.Column(fmt.Sprintf("%d", s.Wires))
		row.Column(fmt.Sprintf("%d", s.Outputs))
	}

	tab.Print(w)
}
