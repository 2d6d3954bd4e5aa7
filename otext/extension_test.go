package otext

import (
	"sync"
	"testing"

	"github.com/markkurossi/fancygarble/block"
	"github.com/markkurossi/fancygarble/ot"
)

func TestExtensionSendReceive(t *testing.T) {
	sPipe, rPipe := ot.NewPipe()

	sender := NewExtension(ot.NewChouOrlandi())
	receiver := NewExtension(ot.NewChouOrlandi())

	const n = 300
	pairs := make([]ot.Pair, n)
	flags := make([]bool, n)
	for i := range pairs {
		l0, _ := block.RandomCrypto()
		l1, _ := block.RandomCrypto()
		pairs[i] = ot.Pair{L0: l0, L1: l1}
		flags[i] = i%5 != 0
	}

	result := make([]block.Block, n)

	var wg sync.WaitGroup
	var sendErr, recvErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		if sendErr = sender.InitSender(sPipe); sendErr != nil {
			return
		}
		sendErr = sender.Send(pairs)
	}()
	go func() {
		defer wg.Done()
		if recvErr = receiver.InitReceiver(rPipe); recvErr != nil {
			return
		}
		recvErr = receiver.Receive(flags, result)
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
		if !result[i].Equal(want) {
			t.Fatalf("index %d: got %v, want %v", i, result[i], want)
		}
	}
}
