package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// CheckerConfig contains configuration for scheduled chain verification.
type CheckerConfig struct {
	// Schedule is a cron expression for scheduling verification.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables the checker.
	Schedule string
}

// DefaultCheckerConfig returns the default checker configuration.
func DefaultCheckerConfig() *CheckerConfig {
	return &CheckerConfig{
		Schedule: "0 3 * * *",
	}
}

// Checker runs scheduled integrity verification over the whole ledger.
// A verification failure is logged and reported through the callback; the
// checker never attempts to repair a chain, since repairing would itself
// be a mutation of the audit trail.
type Checker struct {
	ledger      Ledger
	config      *CheckerConfig
	cron        *cron.Cron
	onViolation func(error)
	mu          sync.Mutex
	logger      *slog.Logger
	running     bool
	lastResult  error
	lastRun     time.Time
}

// NewChecker creates a ledger integrity checker. onViolation may be nil.
func NewChecker(l Ledger, config *CheckerConfig, onViolation func(error)) *Checker {
	if config == nil {
		config = DefaultCheckerConfig()
	}
	return &Checker{
		ledger:      l,
		config:      config,
		cron:        cron.New(),
		onViolation: onViolation,
		logger:      slog.Default().With("component", "ledger.checker"),
	}
}

// Start begins scheduled verification based on the cron expression.
// If Schedule is empty, the checker does nothing.
func (c *Checker) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config.Schedule == "" {
		c.logger.Info("verification schedule not configured, skipping checker")
		return nil
	}

	if _, err := cron.ParseStandard(c.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", c.config.Schedule, err)
	}

	_, err := c.cron.AddFunc(c.config.Schedule, func() {
		c.runVerification(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule verification: %w", err)
	}

	c.cron.Start()
	c.running = true

	c.logger.Info("ledger integrity checker started",
		"schedule", c.config.Schedule,
	)

	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	return nil
}

// VerifyNow runs a verification cycle immediately.
func (c *Checker) VerifyNow(ctx context.Context) error {
	c.runVerification(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResult
}

// runVerification executes a verification cycle.
func (c *Checker) runVerification(ctx context.Context) {
	c.logger.Info("starting scheduled ledger verification")

	err := VerifyLedger(ctx, c.ledger)

	c.mu.Lock()
	c.lastResult = err
	c.lastRun = time.Now().UTC()
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("ledger verification failed",
			"error", err,
		)
		if c.onViolation != nil {
			c.onViolation(err)
		}
		return
	}

	c.logger.Info("ledger verification completed, all chains intact")
}

// Stop stops the checker and waits for any running verification to complete.
// The wait happens outside the mutex: a running verification needs the mutex
// to store its result before it can finish.
func (c *Checker) Stop() {
	c.mu.Lock()
	if c.cron == nil || !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	cr := c.cron
	c.mu.Unlock()

	<-cr.Stop().Done()
	c.logger.Info("ledger integrity checker stopped")
}

// IsRunning returns true if the checker is running.
func (c *Checker) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// LastResult returns the time and outcome of the most recent verification.
// A zero time means no verification has run yet.
func (c *Checker) LastResult() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastRun, c.lastResult
}
