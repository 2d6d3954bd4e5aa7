package gate

import (
	"crypto/rand"
	"testing"

	"github.com/markkurossi/fancygarble/wire"
)

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

func freshWireAndDelta(t *testing.T, dt *wire.DeltaTable, q uint16) (wire.Wire, wire.Wire) {
	t.Helper()
	zero, err := wire.Rand(rand.Reader, q)
	if err != nil {
		t.Fatal(err)
	}
	delta, err := dt.Get(q)
	if err != nil {
		t.Fatal(err)
	}
	return zero, delta
}

func TestProjExhaustive(t *testing.T) {
	dt := wire.NewDeltaTable(rand.Reader)
	for _, q := range []uint16{2, 3, 5, 7} {
		outMod := uint16(4)
		zero, delta := freshWireAndDelta(t, dt, q)
		outDelta, err := dt.Get(outMod)
		if err != nil {
			t.Fatal(err)
		}
		tt := make([]uint16, q)
		for v := range tt {
			tt[v] = uint16((v*3 + 1) % int(outMod))
		}

		outZero, table, err := GarbleProj(zero, delta, outDelta, tt, uint64(q)<<8)
		if err != nil {
			t.Fatal(err)
		}

		for v := uint16(0); v < q; v++ {
			held, err := zero.Plus(delta.Cmul(v))
			if err != nil {
				t.Fatal(err)
			}
			got, err := EvalProj(held, outMod, table, uint64(q)<<8)
			if err != nil {
				t.Fatal(err)
			}
			want, err := outZero.Plus(outDelta.Cmul(tt[v]))
			if err != nil {
				t.Fatal(err)
			}
			if !wireEqual(got, want) {
				t.Fatalf("q=%d v=%d: got %+v, want %+v", q, v, got, want)
			}
		}
		if len(table) != int(q)-1 {
			t.Fatalf("q=%d: table has %d entries, want %d", q, len(table), q-1)
		}
	}
}

func TestMulExhaustive(t *testing.T) {
	dt := wire.NewDeltaTable(rand.Reader)
	for _, pair := range [][2]uint16{{5, 5}, {7, 5}, {3, 2}} {
		qx, qy := pair[0], pair[1]
		x, dx := freshWireAndDelta(t, dt, qx)
		y, dy := freshWireAndDelta(t, dt, qy)
		outDelta, err := dt.Get(qx)
		if err != nil {
			t.Fatal(err)
		}

		outZero, table, err := GarbleMul(x, dx, y, dy, outDelta, uint64(qx)<<16|uint64(qy))
		if err != nil {
			t.Fatal(err)
		}
		if len(table) != int(qx)*int(qy) {
			t.Fatalf("qx=%d qy=%d: table has %d entries, want %d", qx, qy, len(table), int(qx)*int(qy))
		}

		for a := uint16(0); a < qx; a++ {
			heldX, err := x.Plus(dx.Cmul(a))
			if err != nil {
				t.Fatal(err)
			}
			for b := uint16(0); b < qy; b++ {
				heldY, err := y.Plus(dy.Cmul(b))
				if err != nil {
					t.Fatal(err)
				}
				got, err := EvalMul(heldX, heldY, qx, table, uint64(qx)<<16|uint64(qy))
				if err != nil {
					t.Fatal(err)
				}
				want, err := outZero.Plus(outDelta.Cmul(uint16((uint32(a) * uint32(b)) % uint32(qx))))
				if err != nil {
					t.Fatal(err)
				}
				if !wireEqual(got, want) {
					t.Fatalf("qx=%d qy=%d a=%d b=%d: got %+v, want %+v",
						qx, qy, a, b, got, want)
				}
			}
		}
	}
}

func TestOutputDecode(t *testing.T) {
	dt := wire.NewDeltaTable(rand.Reader)
	for _, q := range []uint16{2, 5, 13} {
		zero, delta := freshWireAndDelta(t, dt, q)
		hashes, err := GarbleOutput(zero, delta, 99)
		if err != nil {
			t.Fatal(err)
		}
		for v := uint16(0); v < q; v++ {
			held, err := zero.Plus(delta.Cmul(v))
			if err != nil {
				t.Fatal(err)
			}
			got, err := DecodeOutput(held, 99, hashes)
			if err != nil {
				t.Fatal(err)
			}
			if got != v {
				t.Fatalf("q=%d v=%d: decoded %d", q, v, got)
			}
		}
	}
}
