package cluster_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/serroba/shortlink/internal/cluster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProcess runs until its context ends or exit is closed.
type fakeProcess struct {
	pid  int
	ctx  context.Context
	exit chan struct{}
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Wait() error {
	select {
	case <-p.ctx.Done():
		return nil
	case <-p.exit:
		return errors.New("crashed")
	}
}

// launcher records every start per worker id.
type launcher struct {
	mu      sync.Mutex
	starts  map[int]int
	crashes map[int]int
	failing map[int]int
	nextPid int
}

func newLauncher() *launcher {
	return &launcher{starts: map[int]int{}, crashes: map[int]int{}, failing: map[int]int{}}
}

func (l *launcher) start(ctx context.Context, workerID int) (cluster.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failing[workerID] > 0 {
		l.failing[workerID]--

		return nil, errors.New("exec failed")
	}

	l.starts[workerID]++
	l.nextPid++

	proc := &fakeProcess{pid: l.nextPid, ctx: ctx, exit: make(chan struct{})}

	if l.crashes[workerID] > 0 {
		l.crashes[workerID]--
		close(proc.exit)
	}

	return proc, nil
}

func (l *launcher) startsFor(workerID int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.starts[workerID]
}

func runSupervisor(t *testing.T, sup *cluster.Supervisor) (context.CancelFunc, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- sup.Run(ctx) }()

	t.Cleanup(cancel)

	return cancel, done
}

func TestSupervisor_Run(t *testing.T) {
	cfg := cluster.Config{Workers: 3, MaxBackoff: 5 * time.Millisecond, StableAfter: time.Hour}

	t.Run("starts one process per worker id and stops on cancel", func(t *testing.T) {
		l := newLauncher()
		cancel, done := runSupervisor(t, cluster.NewSupervisor(cfg, l.start, zap.NewNop()))

		require.Eventually(t, func() bool {
			return l.startsFor(0) == 1 && l.startsFor(1) == 1 && l.startsFor(2) == 1
		}, time.Second, time.Millisecond)

		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("supervisor did not stop")
		}
	})

	t.Run("restarts a crashed worker", func(t *testing.T) {
		l := newLauncher()
		l.crashes[1] = 2

		runSupervisor(t, cluster.NewSupervisor(cfg, l.start, zap.NewNop()))

		require.Eventually(t, func() bool { return l.startsFor(1) == 3 }, time.Second, time.Millisecond)
		assert.Equal(t, 1, l.startsFor(0))
		assert.Equal(t, 1, l.startsFor(2))
	})

	t.Run("retries a worker that fails to start", func(t *testing.T) {
		l := newLauncher()
		l.failing[0] = 3

		runSupervisor(t, cluster.NewSupervisor(cfg, l.start, zap.NewNop()))

		require.Eventually(t, func() bool { return l.startsFor(0) == 1 }, time.Second, time.Millisecond)
	})
}

func TestNewSupervisor(t *testing.T) {
	sup := cluster.NewSupervisor(cluster.Config{}, newLauncher().start, zap.NewNop())

	assert.Equal(t, runtime.NumCPU(), sup.Workers())
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 4, cluster.WorkerCount(4))
	assert.Equal(t, runtime.NumCPU(), cluster.WorkerCount(0))
	assert.Equal(t, runtime.NumCPU(), cluster.WorkerCount(-1))
}

func TestWorkerIDFromEnv(t *testing.T) {
	t.Run("unset means supervisor", func(t *testing.T) {
		t.Setenv(cluster.WorkerIDEnv, "")

		_, ok, err := cluster.WorkerIDFromEnv()

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("parses the worker index", func(t *testing.T) {
		t.Setenv(cluster.WorkerIDEnv, "7")

		id, ok, err := cluster.WorkerIDFromEnv()

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 7, id)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Setenv(cluster.WorkerIDEnv, "abc")

		_, _, err := cluster.WorkerIDFromEnv()

		assert.Error(t, err)
	})
}

func TestExecStarter(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	t.Run("passes the worker id through the environment", func(t *testing.T) {
		starter := &cluster.ExecStarter{
			Path: "/bin/sh",
			Args: []string{"-c", `test "$` + cluster.WorkerIDEnv + `" = 4`},
		}

		proc, err := starter.Start(context.Background(), 4)
		require.NoError(t, err)

		assert.Positive(t, proc.Pid())
		assert.NoError(t, proc.Wait())
	})

	t.Run("cancel terminates the worker", func(t *testing.T) {
		starter := &cluster.ExecStarter{
			Path:        "/bin/sh",
			Args:        []string{"-c", "sleep 30"},
			GracePeriod: time.Second,
		}

		ctx, cancel := context.WithCancel(context.Background())

		proc, err := starter.Start(ctx, 0)
		require.NoError(t, err)

		cancel()

		done := make(chan error, 1)
		go func() { done <- proc.Wait() }()

		select {
		case err := <-done:
			assert.Error(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("worker was not terminated")
		}
	})
}
