package ot

import (
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/markkurossi/fancygarble/block"
)

func TestCOHelpersRoundTrip(t *testing.T) {
	curve := elliptic.P256()

	setup, err := GenerateCOSenderSetup(rand.Reader, curve)
	if err != nil {
		t.Fatal(err)
	}

	bits := []bool{false, true, true, false, true}
	choices, points, err := BuildCOChoices(rand.Reader, curve, setup.Ax, setup.Ay, bits)
	if err != nil {
		t.Fatal(err)
	}

	pairs := make([]Pair, len(bits))
	for i := range pairs {
		l0, _ := block.RandomCrypto()
		l1, _ := block.RandomCrypto()
		pairs[i] = Pair{L0: l0, L1: l1}
	}

	ciphertexts, err := EncryptCOCiphertexts(curve, setup, points, pairs)
	if err != nil {
		t.Fatal(err)
	}

	result, err := DecryptCOCiphertexts(curve, choices, ciphertexts)
	if err != nil {
		t.Fatal(err)
	}

	for i, bit := range bits {
		want := pairs[i].L0
		if bit {
			want = pairs[i].L1
		}
		if !result[i].Equal(want) {
			t.Fatalf("transfer %d: got %v, want %v", i, result[i], want)
		}
	}
}

func TestEnsureOnCurveRejectsNil(t *testing.T) {
	curve := elliptic.P256()
	if err := ensureOnCurve(curve, nil, nil); err != ErrPointNotOnCurve {
		t.Fatalf("got %v, want ErrPointNotOnCurve", err)
	}
	if err := ensureOnCurve(nil, nil, nil); err != ErrNilCurve {
		t.Fatalf("got %v, want ErrNilCurve", err)
	}
}
