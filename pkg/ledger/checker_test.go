package ledger

import (
	"context"
	"testing"
	"time"
)

// slowLedger delays ReadAll until released so a verification can be caught
// mid-flight.
type slowLedger struct {
	*MemoryLedger
	started chan struct{}
	release chan struct{}
}

func (l *slowLedger) ReadAll(ctx context.Context) ([]*Record, error) {
	select {
	case l.started <- struct{}{}:
	default:
	}
	<-l.release
	return l.MemoryLedger.ReadAll(ctx)
}

func TestCheckerStopDuringVerification(t *testing.T) {
	mem := NewMemoryLedger()
	defer mem.Close()
	buildChain(t, mem, "claim-1", fullPipeline())

	l := &slowLedger{
		MemoryLedger: mem,
		started:      make(chan struct{}, 1),
		release:      make(chan struct{}),
	}

	checker := NewChecker(l, &CheckerConfig{Schedule: "@every 1s"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := checker.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !checker.IsRunning() {
		t.Fatal("checker should be running after Start()")
	}

	select {
	case <-l.started:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled verification never started")
	}

	stopped := make(chan struct{})
	go func() {
		checker.Stop()
		close(stopped)
	}()

	// The in-flight verification finishes once released; Stop must then
	// return instead of blocking the verification's result store.
	close(l.release)

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() did not return while a verification was in flight")
	}
	if checker.IsRunning() {
		t.Error("checker should not be running after Stop()")
	}
	if at, err := checker.LastResult(); at.IsZero() || err != nil {
		t.Errorf("LastResult() = (%v, %v), want completed clean verification", at, err)
	}
}

func TestCheckerStartEmptySchedule(t *testing.T) {
	l := NewMemoryLedger()
	defer l.Close()

	checker := NewChecker(l, &CheckerConfig{}, nil)
	if err := checker.Start(context.Background()); err != nil {
		t.Fatalf("Start() with empty schedule failed: %v", err)
	}
	if checker.IsRunning() {
		t.Error("checker should stay idle without a schedule")
	}
	checker.Stop()
}
