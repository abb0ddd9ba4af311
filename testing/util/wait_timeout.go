package util

import (
	"testing"
	"time"
)

// Waiter lets tests assert that a goroutine reaches a completion point
// before a timeout, instead of blocking forever on a bare channel receive.
type Waiter struct {
	c chan struct{}
}

// NewWaiter creates the channel the Waiter signals on.
func NewWaiter() *Waiter {
	return &Waiter{c: make(chan struct{})}
}

// Done marks the completion point. Call it at most once.
func (w *Waiter) Done() {
	close(w.c)
}

// RequireDoneAfter fails the test if Done is not called within the timeout.
func (w *Waiter) RequireDoneAfter(t *testing.T, timeout time.Duration) {
	select {
	case <-w.c:
	case <-time.After(timeout):
		t.Fatalf("timeout after %s", timeout)
	}
}
