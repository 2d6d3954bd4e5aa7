package gate

import (
	"fmt"

	"github.com/markkurossi/fancygarble/block"
	"github.com/markkurossi/fancygarble/wire"
)

// GarbleOutput builds the decoding table for an output wire: one digest per
// possible value v in [0, q), H_v = digest(zero + cmul(delta, v), tweak).
// tweak should incorporate the output wire's index so that two output wires
// never share a digest space.
func GarbleOutput(zero, delta wire.Wire, tweak uint64) ([]block.Block, error) {
	q := zero.Mod
	hashes := make([]block.Block, q)
	for v := uint16(0); v < q; v++ {
		label, err := zero.Plus(delta.Cmul(v))
		if err != nil {
			return nil, err
		}
		hashes[v] = label.Digest(tweak)
	}
	return hashes, nil
}

// DecodeOutput finds the value whose stored digest matches the held label,
// returning an error if none match (tampering or a garbling/evaluation bug,
// never a legitimate outcome).
func DecodeOutput(held wire.Wire, tweak uint64, hashes []block.Block) (uint16, error) {
	d := held.Digest(tweak)
	for v, h := range hashes {
		if h.Equal(d) {
			return uint16(v), nil
		}
	}
	return 0, fmt.Errorf("gate: output label matches no stored digest")
}
