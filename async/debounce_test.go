package async

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pharoslabs/pharos/testing/assert"
)

func TestDebounce_CollapsesBurstsIntoOneCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventsChan := make(chan interface{}, 100)
	interval := 20 * time.Millisecond
	var handled int64
	done := make(chan struct{})
	go func() {
		Debounce(ctx, interval, eventsChan, func(event interface{}) {
			atomic.AddInt64(&handled, 1)
		})
		close(done)
	}()
	for i := 0; i < 50; i++ {
		eventsChan <- struct{}{}
	}
	// Wait long enough for the burst to settle and the handler to fire once.
	time.Sleep(5 * interval)
	assert.Equal(t, int64(1), atomic.LoadInt64(&handled))
	close(eventsChan)
	<-done
}

func TestDebounce_CtxCancelStopsHandling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	eventsChan := make(chan interface{}, 1)
	var handled int64
	done := make(chan struct{})
	go func() {
		Debounce(ctx, time.Minute, eventsChan, func(event interface{}) {
			atomic.AddInt64(&handled, 1)
		})
		close(done)
	}()
	eventsChan <- struct{}{}
	time.Sleep(10 * time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, int64(0), atomic.LoadInt64(&handled))
}
