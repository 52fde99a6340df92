package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/cluster"
	"github.com/serroba/shortlink/internal/container"
	"github.com/serroba/shortlink/internal/messaging"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		if err := options.Validate(); err != nil {
			log.Fatalf("invalid options: %v", err)
		}

		workerID, isWorker, err := cluster.WorkerIDFromEnv()
		if err != nil {
			log.Fatal(err)
		}

		if isWorker || options.Standalone {
			serveWorker(hooks, options, container.Worker{ID: workerID})

			return
		}

		supervise(hooks, options)
	})

	cli.Run()
}

// serveWorker runs one HTTP worker. Workers bind the shared port with SO_REUSEPORT.
func serveWorker(hooks humacli.Hooks, options *container.Options, worker container.Worker) {
	injector := container.New(options, worker)
	logger := do.MustInvoke[*zap.Logger](injector)

	ctx, cancel := context.WithCancel(context.Background())

	var server *http.Server

	hooks.OnStart(func() {
		router := do.MustInvoke[*chi.Mux](injector)

		// Invoke API to trigger route registration
		_ = do.MustInvoke[huma.API](injector)

		consumers := do.MustInvoke[*messaging.ConsumerGroup](injector)
		if err := consumers.Start(ctx); err != nil {
			logger.Fatal("failed to start invalidation consumers", zap.Error(err))
		}

		ln, err := cluster.Listen(ctx, fmt.Sprintf(":%d", options.Port))
		if err != nil {
			logger.Fatal("listen failed", zap.Error(err))
		}

		server = &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		logger.Info("worker serving", zap.Int("port", options.Port))

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	})

	hooks.OnStop(func() {
		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if server != nil {
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown error", zap.Error(err))
			}
		}

		cancel()

		if err := injector.Shutdown(); err != nil {
			logger.Error("service shutdown error", zap.Error(err))
		}

		logger.Info("shutdown complete")
		_ = logger.Sync()
	})
}

// supervise re-executes this binary once per worker and keeps the workers alive.
func supervise(hooks humacli.Hooks, options *container.Options) {
	logger, err := container.NewLogger(options.LogFormat)
	if err != nil {
		log.Fatal(err)
	}

	logger = logger.With(zap.String("role", "supervisor"), zap.Int("pid", os.Getpid()))

	starter, err := cluster.NewExecStarter(os.Args[1:], shutdownTimeout)
	if err != nil {
		logger.Fatal("cannot locate executable", zap.Error(err))
	}

	supervisor := cluster.NewSupervisor(cluster.Config{
		Workers:    options.Workers,
		MaxBackoff: time.Duration(options.MaxRestartBackoff) * time.Second,
	}, starter.Start, logger)

	if options.Store == container.StoreMemory && supervisor.Workers() > 1 {
		logger.Warn("memory store is private to each worker; links will not be shared",
			zap.Int("workers", supervisor.Workers()),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	hooks.OnStart(func() {
		defer close(done)

		if err := supervisor.Run(ctx); err != nil {
			logger.Error("supervisor failed", zap.Error(err))
		}
	})

	hooks.OnStop(func() {
		logger.Info("stopping workers")
		cancel()
		<-done
		logger.Info("shutdown complete")
		_ = logger.Sync()
	})
}
