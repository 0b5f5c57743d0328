// Package aligner drives the external forced-alignment pipeline.
//
// The pipeline (token normalization, phonetization, phoneme alignment) is
// multi-stage and, on some inputs, a single invocation emits only the
// intermediate artifacts of an early stage. Re-running the same command with
// those intermediates present advances it to the next stage, so the gateway
// loops the full command until both alignment tables exist, bounded by an
// attempt cap and a per-attempt timeout.
package aligner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hablalab/fonema/domain/entities"
	"github.com/hablalab/fonema/domain/repositories"
)

// DefaultMaxAttempts caps pipeline invocations per request.
const DefaultMaxAttempts = 5

// DefaultAttemptTimeout bounds a single pipeline invocation.
const DefaultAttemptTimeout = 60 * time.Second

// Runner executes one pipeline invocation against a working directory.
// Injectable so tests can fake the external pipeline.
type Runner func(ctx context.Context, dir string) error

// Gateway implements repositories.Aligner over a subprocess pipeline.
type Gateway struct {
	run            Runner
	maxAttempts    int
	attemptTimeout time.Duration
	logger         *zap.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithMaxAttempts overrides the invocation cap. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Gateway) {
		if n >= 1 {
			g.maxAttempts = n
		}
	}
}

// WithAttemptTimeout overrides the per-invocation timeout. Non-positive
// values are ignored.
func WithAttemptTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.attemptTimeout = d
		}
	}
}

// WithRunner replaces the subprocess runner, for tests.
func WithRunner(run Runner) Option {
	return func(g *Gateway) {
		g.run = run
	}
}

// New creates a gateway that invokes command with args, the working
// directory appended as the final argument.
func New(command string, args []string, logger *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		run:            commandRunner(command, args),
		maxAttempts:    DefaultMaxAttempts,
		attemptTimeout: DefaultAttemptTimeout,
		logger:         logger,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Align polls dir for both alignment tables, re-invoking the pipeline while
// either is missing. A timed-out invocation counts as a failed attempt.
// Exceeding the cap fails with entities.ErrAlignmentTimeout.
func (g *Gateway) Align(ctx context.Context, dir string) error {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if g.tablesPresent(dir) {
			g.logger.Info("alignment tables present",
				zap.String("dir", filepath.Base(dir)),
				zap.Int("attempts", attempt-1))
			return nil
		}

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("alignment cancelled: %w", err)
		}

		g.logger.Info("invoking alignment pipeline",
			zap.String("dir", filepath.Base(dir)),
			zap.Int("attempt", attempt))

		attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
		err := g.run(attemptCtx, dir)
		cancel()
		if err != nil {
			// A failed or timed-out invocation may still have advanced a
			// stage; keep looping until the cap.
			g.logger.Warn("alignment pipeline invocation failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
	}

	if g.tablesPresent(dir) {
		return nil
	}
	return fmt.Errorf("%w: tables missing after %d attempts", entities.ErrAlignmentTimeout, g.maxAttempts)
}

func (g *Gateway) tablesPresent(dir string) bool {
	return fileExists(filepath.Join(dir, repositories.LearnerAlignmentTable)) &&
		fileExists(filepath.Join(dir, repositories.NativeAlignmentTable))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func commandRunner(command string, args []string) Runner {
	return func(ctx context.Context, dir string) error {
		cmd := exec.CommandContext(ctx, command, append(append([]string{}, args...), dir)...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("pipeline attempt timed out: %w", ctx.Err())
			}
			return fmt.Errorf("pipeline exited: %w (output: %s)", err, out)
		}
		return nil
	}
}

var _ repositories.Aligner = &Gateway{}
