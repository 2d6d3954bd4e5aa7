//
// co_helpers.go
//
// Copyright (c) 2023 Markku Rossi
//
// All rights reserved.
//
// co_helpers.go decomposes the Chou-Orlandi OT protocol of co.go into pure,
// side-effect-free functions so that the protocol's cryptographic core can
// be property-tested independently of any IO transport.

package ot

import (
	"crypto/elliptic"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/markkurossi/fancygarble/block"
)

// ErrNilCurve signals that a helper received a nil elliptic curve.
var ErrNilCurve = errors.New("ot: nil curve")

// ErrPointNotOnCurve signals that an input point is not on the active curve.
var ErrPointNotOnCurve = errors.New("ot: point not on curve")

// ECPoint describes an affine curve point.
type ECPoint struct {
	X *big.Int
	Y *big.Int
}

// LabelCiphertext stores both encrypted labels for a single OT instance.
type LabelCiphertext struct {
	Zero [16]byte
	One  [16]byte
}

// COSenderSetup contains the immutable metadata sampled by the sender.
type COSenderSetup struct {
	CurveName string
	Scalar    *big.Int
	Ax, Ay    *big.Int
	AaInvX    *big.Int
	AaInvY    *big.Int
}

// COChoiceBundle preserves the receiver-side secrets for later decryption.
type COChoiceBundle struct {
	CurveName string
	Ax, Ay    *big.Int
	Scalars   []*big.Int
	Bits      []bool
}

// GenerateCOSenderSetup samples the sender randomness and curve points.
func GenerateCOSenderSetup(rand io.Reader, curve elliptic.Curve) (COSenderSetup, error) {
	if curve == nil {
		return COSenderSetup{}, ErrNilCurve
	}
	params := curve.Params()

	a, err := crand.Int(rand, params.N)
	if err != nil {
		return COSenderSetup{}, err
	}
	Ax, Ay := curve.ScalarBaseMult(a.Bytes())
	Aax, Aay := curve.ScalarMult(Ax, Ay, a.Bytes())

	AaInvx := big.NewInt(0).Set(Aax)
	AaInvy := big.NewInt(0).Sub(params.P, Aay)

	return COSenderSetup{
		CurveName: curve.Params().Name,
		Scalar:    a,
		Ax:        Ax,
		Ay:        Ay,
		AaInvX:    AaInvx,
		AaInvY:    AaInvy,
	}, nil
}

// EncryptCOCiphertexts encrypts wire label pairs for every evaluator input
// bit.
func EncryptCOCiphertexts(curve elliptic.Curve, setup COSenderSetup, points []ECPoint, pairs []Pair) ([]LabelCiphertext, error) {
	if curve == nil {
		return nil, ErrNilCurve
	}
	if err := ensureOnCurve(curve, setup.Ax, setup.Ay); err != nil {
		return nil, err
	}
	if len(points) != len(pairs) {
		return nil, fmt.Errorf("OT point count mismatch: got %d want %d", len(points), len(pairs))
	}

	aBytes := setup.Scalar.Bytes()

	result := make([]LabelCiphertext, len(points))
	for idx, point := range points {
		if err := ensureOnCurve(curve, point.X, point.Y); err != nil {
			return nil, err
		}
		Bx, By := curve.ScalarMult(point.X, point.Y, aBytes)
		Bax, Bay := curve.Add(Bx, By, setup.AaInvX, setup.AaInvY)

		mask0 := deriveMask(Bx, By, uint64(idx))
		mask1 := deriveMask(Bax, Bay, uint64(idx))

		l0 := pairs[idx].L0.Bytes()
		l1 := pairs[idx].L1.Bytes()
		copy(result[idx].Zero[:], xor(mask0[:], l0))
		copy(result[idx].One[:], xor(mask1[:], l1))
	}

	return result, nil
}

// BuildCOChoices constructs the receiver EC points for each choice bit.
func BuildCOChoices(rand io.Reader, curve elliptic.Curve, Ax, Ay *big.Int, bits []bool) (COChoiceBundle, []ECPoint, error) {
	if curve == nil {
		return COChoiceBundle{}, nil, ErrNilCurve
	}
	if err := ensureOnCurve(curve, Ax, Ay); err != nil {
		return COChoiceBundle{}, nil, err
	}
	params := curve.Params()
	points := make([]ECPoint, len(bits))
	scalars := make([]*big.Int, len(bits))
	for idx, bit := range bits {
		b, err := crand.Int(rand, params.N)
		if err != nil {
			return COChoiceBundle{}, nil, err
		}
		scalars[idx] = b

		Bx, By := curve.ScalarBaseMult(b.Bytes())
		if bit {
			Bx, By = curve.Add(Bx, By, Ax, Ay)
		}

		points[idx] = ECPoint{X: Bx, Y: By}
	}

	bundle := COChoiceBundle{
		CurveName: curve.Params().Name,
		Ax:        new(big.Int).Set(Ax),
		Ay:        new(big.Int).Set(Ay),
		Scalars:   scalars,
		Bits:      append([]bool(nil), bits...),
	}

	return bundle, points, nil
}

// ensureOnCurve verifies that (x,y) is a valid affine point on the curve.
func ensureOnCurve(curve elliptic.Curve, x, y *big.Int) error {
	if curve == nil {
		return ErrNilCurve
	}
	if x == nil || y == nil || !curve.IsOnCurve(x, y) {
		return ErrPointNotOnCurve
	}
	return nil
}

// DecryptCOCiphertexts decodes the chosen labels from ciphertexts.
func DecryptCOCiphertexts(curve elliptic.Curve, bundle COChoiceBundle, data []LabelCiphertext) ([]block.Block, error) {
	if curve == nil {
		return nil, ErrNilCurve
	}

	count := len(bundle.Bits)
	if len(bundle.Scalars) != count || len(data) != count {
		return nil, fmt.Errorf("invalid CO ciphertext bundle")
	}

	result := make([]block.Block, count)
	for idx := 0; idx < count; idx++ {
		Asx, Asy := curve.ScalarMult(bundle.Ax, bundle.Ay, bundle.Scalars[idx].Bytes())
		mask := deriveMask(Asx, Asy, uint64(idx))

		var cipher []byte
		if bundle.Bits[idx] {
			cipher = data[idx].One[:]
		} else {
			cipher = data[idx].Zero[:]
		}

		result[idx].SetBytes(xor(mask[:], cipher))
	}

	return result, nil
}

// deriveMask derives the XOR pad for a particular Diffie-Hellman output
// using blake2b, truncated to a block's 16 bytes.
func deriveMask(x, y *big.Int, id uint64) [16]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write(x.Bytes())
	h.Write(y.Bytes())

	var idBuf [8]byte
	bo.PutUint64(idBuf[:], id)
	h.Write(idBuf[:])

	sum := h.Sum(nil)
	var out [16]byte
	copy(out[:], sum[:16])
	return out
}
