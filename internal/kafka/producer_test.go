package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Shutdown calls Close() and then cancels the loop context, in that
// order. Both paths race to finish the loop; neither may panic or hang.
func TestProducerShutdownCloseThenCancel(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "t", 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	p.Close()
	cancel()

	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer loop did not finish after Close + cancel")
	}
}

func TestProducerCancelOnlyStopsLoop(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "t", 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer loop did not finish after cancel")
	}
	assert.NotPanics(t, func() { p.Close() })
}
