package otext

import (
	"crypto/rand"
	"sync"
	"testing"

	"github.com/markkurossi/fancygarble/block"
	"github.com/markkurossi/fancygarble/ot"
)

func TestIKNPExpand(t *testing.T) {
	sPipe, rPipe := ot.NewPipe()

	const n = 256
	flags := make([]bool, n)
	for i := range flags {
		flags[i] = i%3 == 0
	}

	var wg sync.WaitGroup
	var sendErr, recvErr error
	var pairs []ot.Pair
	var chosen []block.Block

	wg.Add(2)
	go func() {
		defer wg.Done()
		base := ot.NewChouOrlandi()
		if sendErr = base.InitReceiver(sPipe); sendErr != nil {
			return
		}
		s, err := NewSender(base, sPipe, rand.Reader)
		if err != nil {
			sendErr = err
			return
		}
		pairs, sendErr = s.Expand(n)
	}()
	go func() {
		defer wg.Done()
		base := ot.NewChouOrlandi()
		if recvErr = base.InitSender(rPipe); recvErr != nil {
			return
		}
		r, err := NewReceiver(base, rPipe, rand.Reader)
		if err != nil {
			recvErr = err
			return
		}
		chosen, recvErr = r.Expand(flags)
	}()
	wg.Wait()

	if sendErr != nil {
		t.Fatalf("sender: %v", sendErr)
	}
	if recvErr != nil {
		t.Fatalf("receiver: %v", recvErr)
	}

	for i, flag := range flags {
		want := pairs[i].L0
		if flag {
			want = pairs[i].L1
		}
		if !chosen[i].Equal(want) {
			t.Fatalf("index %d: got %v, want %v", i, chosen[i], want)
		}
	}
}
