package cluster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WorkerIDEnv carries the worker index from the supervisor into each worker process.
const WorkerIDEnv = "SHORTLINK_WORKER_ID"

const (
	defaultMaxBackoff  = 30 * time.Second
	defaultStableAfter = 10 * time.Second
	initialBackoff     = 100 * time.Millisecond
)

// Process is a running worker.
type Process interface {
	Pid() int
	Wait() error
}

// StartFunc launches worker workerID. The process must stop when ctx is cancelled.
type StartFunc func(ctx context.Context, workerID int) (Process, error)

// Config controls how many workers run and how quickly crashed workers come back.
type Config struct {
	Workers int
	// MaxBackoff caps the delay between restarts of a crashing worker.
	MaxBackoff time.Duration
	// StableAfter is how long a worker must stay up before its restart delay resets.
	StableAfter time.Duration
}

// Supervisor keeps a fixed number of worker processes alive until its context ends.
type Supervisor struct {
	cfg    Config
	start  StartFunc
	logger *zap.Logger
}

// NewSupervisor creates a supervisor. Zero durations fall back to defaults and a non-positive
// worker count means one worker per CPU.
func NewSupervisor(cfg Config, start StartFunc, logger *zap.Logger) *Supervisor {
	cfg.Workers = WorkerCount(cfg.Workers)

	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}

	if cfg.StableAfter <= 0 {
		cfg.StableAfter = defaultStableAfter
	}

	return &Supervisor{cfg: cfg, start: start, logger: logger}
}

// Workers returns the number of worker slots.
func (s *Supervisor) Workers() int {
	return s.cfg.Workers
}

// Run starts every worker and restarts any that exit. It returns once ctx is cancelled and
// every worker has stopped.
func (s *Supervisor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	s.logger.Info("supervisor starting", zap.Int("workers", s.cfg.Workers))

	for id := range s.cfg.Workers {
		g.Go(func() error {
			s.keepAlive(ctx, id)

			return nil
		})
	}

	err := g.Wait()

	s.logger.Info("supervisor stopped")

	return err
}

func (s *Supervisor) keepAlive(ctx context.Context, id int) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = min(initialBackoff, s.cfg.MaxBackoff)
	b.MaxInterval = s.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	retry := backoff.WithContext(b, ctx)
	log := s.logger.With(zap.Int("worker", id))

	for {
		started := time.Now()

		err := s.runOnce(ctx, id, log)
		if ctx.Err() != nil {
			return
		}

		if time.Since(started) >= s.cfg.StableAfter {
			b.Reset()
		}

		delay := retry.NextBackOff()
		if delay == backoff.Stop {
			return
		}

		log.Warn("worker exited, restarting", zap.Duration("delay", delay), zap.Error(err))

		timer := time.NewTimer(delay)

		select {
		case <-ctx.Done():
			timer.Stop()

			return
		case <-timer.C:
		}
	}
}

func (s *Supervisor) runOnce(ctx context.Context, id int, log *zap.Logger) error {
	proc, err := s.start(ctx, id)
	if err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	log.Info("worker started", zap.Int("pid", proc.Pid()))

	err = proc.Wait()

	log.Info("worker stopped", zap.Int("pid", proc.Pid()), zap.Error(err))

	if err == nil {
		return errWorkerExited
	}

	return err
}

var errWorkerExited = errors.New("worker exited")

// ExecStarter starts workers by re-executing a binary with WorkerIDEnv set.
type ExecStarter struct {
	Path string
	Args []string
	// GracePeriod is how long a worker gets between SIGTERM and SIGKILL.
	GracePeriod time.Duration
}

// NewExecStarter re-executes the running binary with args.
func NewExecStarter(args []string, gracePeriod time.Duration) (*ExecStarter, error) {
	path, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}

	return &ExecStarter{Path: path, Args: args, GracePeriod: gracePeriod}, nil
}

// Start launches one worker process. Cancelling ctx sends it SIGTERM.
func (e *ExecStarter) Start(ctx context.Context, workerID int) (Process, error) {
	cmd := exec.CommandContext(ctx, e.Path, e.Args...)
	cmd.Env = append(os.Environ(), WorkerIDEnv+"="+strconv.Itoa(workerID))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = e.GracePeriod

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

// WorkerCount resolves a configured worker count; non-positive means one per CPU.
func WorkerCount(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}

	return n
}

// WorkerIDFromEnv reports the worker index this process was started with, if any.
func WorkerIDFromEnv() (int, bool, error) {
	raw, ok := os.LookupEnv(WorkerIDEnv)
	if !ok || raw == "" {
		return 0, false, nil
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, false, fmt.Errorf("invalid %s %q", WorkerIDEnv, raw)
	}

	return id, true, nil
}
