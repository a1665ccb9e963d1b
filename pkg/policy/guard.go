package policy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FreezeGuard watches the loaded policy files on disk and reports any
// modification made after the bundle was sealed. The running process never
// reloads: a detected change is a governance violation to be surfaced, not a
// reload trigger. Operators deploy new policy by restarting the process with
// the new versioned files.
type FreezeGuard struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	paths   []string

	// onViolation is invoked once per detected mutation attempt.
	onViolation func(path string)

	mu         sync.Mutex
	violations int
	running    bool
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewFreezeGuard creates a guard over the given policy file paths.
// onViolation may be nil; it is typically wired to a metrics counter.
func NewFreezeGuard(paths []string, logger *slog.Logger, onViolation func(path string)) (*FreezeGuard, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FreezeGuard{
		watcher:     watcher,
		logger:      logger.With("component", "policy.freezeguard"),
		paths:       paths,
		onViolation: onViolation,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Watch blocks until the context is cancelled or Stop is called, reporting
// every on-disk mutation of the watched policy files.
func (g *FreezeGuard) Watch(ctx context.Context) error {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return fmt.Errorf("freeze guard already running")
	}
	g.running = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.running = false
		g.mu.Unlock()
		close(g.doneCh)
	}()

	for _, path := range g.paths {
		if err := g.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch policy file %q: %w", path, err)
		}
	}

	g.logger.Info("policy freeze guard started", "paths", g.paths)

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("policy freeze guard stopped (context cancelled)")
			return nil

		case <-g.stopCh:
			g.logger.Info("policy freeze guard stopped")
			return nil

		case event, ok := <-g.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			g.recordViolation(event)

		case err, ok := <-g.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			g.logger.Error("policy freeze guard watch error", "error", err)
		}
	}
}

// recordViolation logs and counts a detected mutation attempt. The frozen
// in-memory bundle is untouched.
func (g *FreezeGuard) recordViolation(event fsnotify.Event) {
	g.mu.Lock()
	g.violations++
	count := g.violations
	g.mu.Unlock()

	g.logger.Error("policy file modified on disk after load; mutation rejected, frozen policy remains active",
		"path", event.Name,
		"op", event.Op.String(),
		"violation_count", count,
	)

	if g.onViolation != nil {
		g.onViolation(event.Name)
	}
}

// Violations returns the number of mutation attempts detected so far.
func (g *FreezeGuard) Violations() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.violations
}

// Stop stops the guard and releases the underlying watcher.
func (g *FreezeGuard) Stop() error {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return g.watcher.Close()
	}
	g.mu.Unlock()

	close(g.stopCh)
	<-g.doneCh

	if err := g.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}
