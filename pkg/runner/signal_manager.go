package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalManager maps OS signals onto context cancellation so interactive
// hosts can abort a turn cleanly at the next step boundary.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager creates a manager and immediately starts listening.
func NewSignalManager() *SignalManager {
	sm := &SignalManager{}
	sm.Reset()
	return sm
}

// Context returns the current signal context.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Reset re-arms the signal listener. Call after a handled interrupt so
// subsequent signals are captured again.
func (sm *SignalManager) Reset() {
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Stop permanently stops the signal listener.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}
