package ot

import (
	"sync"
	"testing"

	"github.com/markkurossi/fancygarble/block"
)

func TestChouOrlandiTransfer(t *testing.T) {
	sPipe, rPipe := NewPipe()

	sender := NewChouOrlandi()
	receiver := NewChouOrlandi()

	const n = 4
	pairs := make([]Pair, n)
	for i := range pairs {
		l0, _ := block.RandomCrypto()
		l1, _ := block.RandomCrypto()
		pairs[i] = Pair{L0: l0, L1: l1}
	}
	flags := []bool{true, false, false, true}

	var wg sync.WaitGroup
	var sendErr, recvErr error
	result := make([]block.Block, n)

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
			t.Fatalf("transfer %d: got %v, want %v", i, result[i], want)
		}
	}
}
