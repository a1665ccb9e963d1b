package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFreezeGuardDetectsMutation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boundaries.yaml")
	if err := os.WriteFile(path, []byte(testBoundaryYAML), 0o644); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}

	violated := make(chan string, 1)
	guard, err := NewFreezeGuard([]string{path}, nil, func(p string) {
		select {
		case violated <- p:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewFreezeGuard() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchDone := make(chan error, 1)
	go func() {
		watchDone <- guard.Watch(ctx)
	}()

	// Give the watcher time to register the path.
	time.Sleep(100 * time.Millisecond)

	// Mutate the policy file on disk.
	if err := os.WriteFile(path, []byte(testBoundaryYAML+"\n# tampered\n"), 0o644); err != nil {
		t.Fatalf("failed to mutate policy file: %v", err)
	}

	select {
	case got := <-violated:
		if got != path {
			t.Errorf("violation path = %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("freeze guard did not report the mutation")
	}

	if guard.Violations() == 0 {
		t.Error("Violations() should be non-zero after a detected mutation")
	}

	cancel()
	select {
	case err := <-watchDone:
		if err != nil {
			t.Errorf("Watch() returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not stop after context cancellation")
	}

	if err := guard.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}

func TestFreezeGuardMissingPath(t *testing.T) {
	guard, err := NewFreezeGuard([]string{"/nonexistent/policy.yaml"}, nil, nil)
	if err != nil {
		t.Fatalf("NewFreezeGuard() failed: %v", err)
	}
	defer guard.Stop()

	if err := guard.Watch(context.Background()); err == nil {
		t.Fatal("Watch() should fail for a missing path")
	}
}
