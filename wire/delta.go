package wire

import (
	"io"
	"sort"
)

// DeltaTable hands out one free-XOR offset Δ_q per modulus, lazily, on
// first request. The mod-2 delta always has its signal bit forced to 1 (so
// XORing it into any label flips point-and-permute parity, the standard
// free-XOR invariant); deltas for q > 2 instead fix the residue of every
// digit to 1, so that adding cmul(Δ, v) to a label advances its color by
// exactly v mod q.
type DeltaTable struct {
	r      io.Reader
	deltas map[uint16]Wire
}

// NewDeltaTable creates an empty table drawing fresh randomness from r.
func NewDeltaTable(r io.Reader) *DeltaTable {
	return &DeltaTable{r: r, deltas: make(map[uint16]Wire)}
}

// Get returns the Δ for modulus q, generating and caching it on first use.
func (t *DeltaTable) Get(q uint16) (Wire, error) {
	if d, ok := t.deltas[q]; ok {
		return d, nil
	}
	d, err := Rand(t.r, q)
	if err != nil {
		return Wire{}, err
	}
	if q == 2 {
		d.Digits[0] = d.Digits[0].SetS(true)
	} else {
		setResidue(&d, 1)
	}
	t.deltas[q] = d
	return d, nil
}

// DeltaEntry pairs a modulus with its delta, for deterministic iteration
// over a DeltaTable's contents (map iteration order is not stable).
type DeltaEntry struct {
	Mod   uint16
	Delta Wire
}

// Snapshot returns the table's current contents sorted by modulus, for
// serialisation.
func (t *DeltaTable) Snapshot() []DeltaEntry {
	out := make([]DeltaEntry, 0, len(t.deltas))
	for q, d := range t.deltas {
		out = append(out, DeltaEntry{Mod: q, Delta: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mod < out[j].Mod })
	return out
}

// Offset returns zero + cmul(delta, c), the label for value c of a wire
// whose zero-label is zero (the same sum the Encoder computes inline; for
// q > 2 the offset is modular, not a repeated XOR).
func Offset(zero Wire, delta Wire, c uint16) (Wire, error) {
	scaled := delta.Cmul(c)
	return zero.Plus(scaled)
}
