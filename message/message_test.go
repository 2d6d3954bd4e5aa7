package message

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/markkurossi/fancygarble/block"
	"github.com/markkurossi/fancygarble/wire"
)

func mustWire(t *testing.T, q uint16) wire.Wire {
	t.Helper()
	w, err := wire.Rand(rand.Reader, q)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func roundTrip(t *testing.T, m Message) Message {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func wireEqual(a, b wire.Wire) bool {
	if a.Mod != b.Mod || len(a.Digits) != len(b.Digits) {
		return false
	}
	for i := range a.Digits {
		if !a.Digits[i].Equal(b.Digits[i]) {
			return false
		}
	}
	return true
}

func TestRoundTripInputsAndConstant(t *testing.T) {
	for _, q := range []uint16{2, 5, 13} {
		zero, delta := mustWire(t, q), mustWire(t, q)

		got := roundTrip(t, UnencodedGarblerInput(zero, delta))
		if got.Tag != TagUnencodedGarblerInput || !wireEqual(got.Zero, zero) || !wireEqual(got.Delta, delta) {
			t.Fatalf("q=%d: unencoded garbler input round trip mismatch", q)
		}

		w := mustWire(t, q)
		got = roundTrip(t, EvaluatorInput(w))
		if got.Tag != TagEvaluatorInput || !wireEqual(got.Wire, w) {
			t.Fatalf("q=%d: evaluator input round trip mismatch", q)
		}

		got = roundTrip(t, Constant(3, w))
		if got.Tag != TagConstant || got.Value != 3 || !wireEqual(got.Wire, w) {
			t.Fatalf("q=%d: constant round trip mismatch", q)
		}
	}
}

func TestRoundTripGarbledGateAndOutput(t *testing.T) {
	table := []wire.Wire{mustWire(t, 5), mustWire(t, 5), mustWire(t, 5), mustWire(t, 5)}
	got := roundTrip(t, GarbledGate(table))
	if got.Tag != TagGarbledGate || len(got.Table) != len(table) {
		t.Fatal("garbled gate round trip length mismatch")
	}
	for i := range table {
		if !wireEqual(got.Table[i], table[i]) {
			t.Fatalf("row %d mismatch", i)
		}
	}

	hashes := make([]block.Block, 5)
	for i := range hashes {
		b, err := block.RandomCrypto()
		if err != nil {
			t.Fatal(err)
		}
		hashes[i] = b
	}
	got = roundTrip(t, OutputCiphertext(hashes))
	if got.Tag != TagOutputCiphertext || len(got.Hashes) != len(hashes) {
		t.Fatal("output ciphertext round trip length mismatch")
	}
	for i := range hashes {
		if !got.Hashes[i].Equal(hashes[i]) {
			t.Fatalf("hash %d mismatch", i)
		}
	}
}

func TestChannelCapacity(t *testing.T) {
	ch := NewChannel()
	if cap(ch) != ChannelCapacity {
		t.Fatalf("got capacity %d, want %d", cap(ch), ChannelCapacity)
	}
}
