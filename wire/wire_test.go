package wire

import (
	"crypto/rand"
	"testing"
)

func TestPlusMinusRoundTrip(t *testing.T) {
	for _, q := range []uint16{2, 3, 5, 7, 16} {
		x, err := Rand(rand.Reader, q)
		if err != nil {
			t.Fatal(err)
		}
		y, err := Rand(rand.Reader, q)
		if err != nil {
			t.Fatal(err)
		}
		sum, err := x.Plus(y)
		if err != nil {
			t.Fatal(err)
		}
		back, err := sum.Minus(y)
		if err != nil {
			t.Fatal(err)
		}
		if back.Color() != x.Color() {
			t.Fatalf("q=%d: (x+y)-y color = %d, want %d", q, back.Color(), x.Color())
		}
	}
}

func TestCmulColor(t *testing.T) {
	w := FromResidue(7, 3)
	got := w.Cmul(2).Color()
	if got != 6 {
		t.Fatalf("3*2 mod 7 = %d, want 6", got)
	}
}

func TestDeltaTableStable(t *testing.T) {
	dt := NewDeltaTable(rand.Reader)
	d1, err := dt.Get(5)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := dt.Get(5)
	if err != nil {
		t.Fatal(err)
	}
	if d1.Color() != d2.Color() {
		t.Fatal("DeltaTable.Get not stable across calls for the same modulus")
	}
	mod2, err := dt.Get(2)
	if err != nil {
		t.Fatal(err)
	}
	if !mod2.Digits[0].S() {
		t.Fatal("mod-2 delta must have signal bit set")
	}
}

func TestHashBackDeterministic(t *testing.T) {
	x, err := Rand(rand.Reader, 2)
	if err != nil {
		t.Fatal(err)
	}
	a := x.HashBack(42, 5)
	b := x.HashBack(42, 5)
	if a.Digits[0].D0 != b.Digits[0].D0 || a.Digits[0].D1 != b.Digits[0].D1 {
		t.Fatal("HashBack not deterministic for same tweak")
	}
}
