package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// blockingInitializer waits for its context like a gateway that never answers.
type blockingInitializer struct {
	started chan struct{}
	err     error
}

func (b *blockingInitializer) Initialize(ctx context.Context) error {
	close(b.started)
	<-ctx.Done()
	b.err = ctx.Err()
	return b.err
}

func TestInitializeInBackground(t *testing.T) {
	pending := &blockingInitializer{started: make(chan struct{})}

	returned := make(chan func())
	go func() { returned <- initializeInBackground(context.Background(), pending, zap.NewNop()) }()

	var stop func()
	select {
	case stop = <-returned:
	case <-time.After(time.Second):
		t.Fatal("startup waited for the session to resolve")
	}

	<-pending.started
	stop()
	assert.ErrorIs(t, pending.err, context.Canceled)
}
