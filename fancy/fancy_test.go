package fancy

import (
	"crypto/rand"
	"testing"

	"github.com/markkurossi/fancygarble/message"
	"github.com/markkurossi/fancygarble/wire"
)

func TestCircuitBuilderAdd(t *testing.T) {
	b := NewCircuitBuilder()
	x, _ := b.GarblerInput(103)
	y, _ := b.EvaluatorInput(103)
	z, err := b.Add(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Output(z); err != nil {
		t.Fatal(err)
	}
	out, err := b.C.Eval([]uint16{47}, []uint16{89})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 33 {
		t.Fatalf("got %d, want 33", out[0])
	}
}

// runStreaming wires a Garbler and an Evaluator together over an in-memory
// channel, intercepting Unencoded* messages the way the project's
// streaming test helper does: replacing them with the resolved label for
// whichever party's plaintext input is next in line.
func runStreaming(t *testing.T, computation func(f Fancy[wire.Wire]) error, garblerInputs, evaluatorInputs []uint16) []uint16 {
	t.Helper()
	ch := message.NewChannel()
	dt := wire.NewDeltaTable(rand.Reader)

	gErrCh := make(chan error, 1)
	go func() {
		gi, ei := 0, 0
		send := func(m message.Message) error {
			switch m.Tag {
			case message.TagUnencodedGarblerInput:
				if gi >= len(garblerInputs) {
					return errNotEnough("garbler")
				}
				label, err := m.Zero.Plus(m.Delta.Cmul(garblerInputs[gi]))
				if err != nil {
					return err
				}
				gi++
				ch <- message.GarblerInput(label)
			case message.TagUnencodedEvaluatorInput:
				if ei >= len(evaluatorInputs) {
					return errNotEnough("evaluator")
				}
				label, err := m.Zero.Plus(m.Delta.Cmul(evaluatorInputs[ei]))
				if err != nil {
					return err
				}
				ei++
				ch <- message.EvaluatorInput(label)
			default:
				ch <- m
			}
			return nil
		}
		g := NewGarbler(rand.Reader, dt, send)
		gErrCh <- computation(g)
		close(ch)
	}()

	recv := func() (message.Message, error) {
		m, ok := <-ch
		if !ok {
			return message.Message{}, errChannelClosed
		}
		return m, nil
	}
	e := NewEvaluator(recv)
	if err := computation(e); err != nil {
		t.Fatalf("evaluator computation: %v", err)
	}
	if err := <-gErrCh; err != nil {
		t.Fatalf("garbler computation: %v", err)
	}
	out, err := e.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

var errChannelClosed = simpleError("fancy: channel closed before evaluator finished")

func errNotEnough(who string) error {
	return simpleError("fancy: not enough " + who + " inputs")
}

func TestStreamingAdd(t *testing.T) {
	computation := func(f Fancy[wire.Wire]) error {
		x, err := f.GarblerInput(103)
		if err != nil {
			return err
		}
		y, err := f.EvaluatorInput(103)
		if err != nil {
			return err
		}
		z, err := f.Add(x, y)
		if err != nil {
			return err
		}
		return f.Output(z)
	}
	out := runStreaming(t, computation, []uint16{47}, []uint16{89})
	if out[0] != 33 {
		t.Fatalf("got %d, want 33", out[0])
	}
}

func TestStreamingMulAndGadgets(t *testing.T) {
	computation := func(f Fancy[wire.Wire]) error {
		x, err := f.GarblerInput(7)
		if err != nil {
			return err
		}
		y, err := f.EvaluatorInput(5)
		if err != nil {
			return err
		}
		z, err := f.Mul(x, y)
		if err != nil {
			return err
		}
		return f.Output(z)
	}
	out := runStreaming(t, computation, []uint16{6}, []uint16{4})
	if out[0] != 3 {
		t.Fatalf("got %d, want 3", out[0])
	}
}

func TestStreamingXorNegateOr(t *testing.T) {
	computation := func(f Fancy[wire.Wire]) error {
		x, err := f.GarblerInput(2)
		if err != nil {
			return err
		}
		y, err := f.EvaluatorInput(2)
		if err != nil {
			return err
		}
		nx, err := Negate(f, x)
		if err != nil {
			return err
		}
		orxy, err := Or(f, x, y)
		if err != nil {
			return err
		}
		xorxy, err := Xor(f, nx, orxy)
		if err != nil {
			return err
		}
		return f.Output(xorxy)
	}
	// x=1, y=0: nx=0, or(x,y)=1, xor(0,1)=1
	out := runStreaming(t, computation, []uint16{1}, []uint16{0})
	if out[0] != 1 {
		t.Fatalf("got %d, want 1", out[0])
	}
	// x=0, y=0: nx=1, or(x,y)=0, xor(1,0)=1
	out = runStreaming(t, computation, []uint16{0}, []uint16{0})
	if out[0] != 1 {
		t.Fatalf("got %d, want 1", out[0])
	}
	// x=1, y=1: nx=0, or(x,y)=1, xor(0,1)=1
	out = runStreaming(t, computation, []uint16{1}, []uint16{1})
	if out[0] != 1 {
		t.Fatalf("got %d, want 1", out[0])
	}
	// x=0, y=1: nx=1, or(x,y)=1, xor(1,1)=0
	out = runStreaming(t, computation, []uint16{0}, []uint16{1})
	if out[0] != 0 {
		t.Fatalf("got %d, want 0", out[0])
	}
}
