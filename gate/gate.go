// Package gate implements the per-gate garbling and evaluation functions of
// the garbling core: the cryptographic heart that turns a plaintext
// operation over Z_q wires into ciphertexts (garbling) and turns ciphertexts
// plus held labels back into a single output label (evaluation).
//
// Free operations (Add, Sub, Cmul, Constant) never touch this package:
// they are plain wire.Wire arithmetic performed directly by the
// circuit/fancy layers and never emit a ciphertext. Only Proj, Mul and
// Output are implemented here, since only they introduce pseudorandomness
// via wire.Wire.HashBack/HashPair.
//
// Every function is a pure function of its wire-label arguments: no I/O, no
// randomness beyond what the caller already drew into the zero labels and
// delta table. Gate identity (which prevents two gates from hashing the
// same input to the same output) is threaded through as a tweak, mirroring
// the teacher's per-gate id counter in circuit/garble.go.
package gate

import (
	"fmt"

	"github.com/markkurossi/fancygarble/wire"
)

func checkMod(a, b wire.Wire) error {
	if a.Mod != b.Mod {
		return fmt.Errorf("gate: modulus mismatch %d != %d", a.Mod, b.Mod)
	}
	return nil
}
