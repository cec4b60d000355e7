package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rocketscienceinc/bulletconnect/internal/config"
	"github.com/rocketscienceinc/bulletconnect/internal/entity"
	"github.com/rocketscienceinc/bulletconnect/internal/metrics"
	"github.com/rocketscienceinc/bulletconnect/internal/timesource"
	"github.com/rocketscienceinc/bulletconnect/internal/usecase"
	"github.com/rocketscienceinc/bulletconnect/transport/rest"
)

var ErrAddrNotFound = errors.New("redis host is empty")

// RunApp - runs one local match: moves are read from in, one column per line,
// while the clocks are ticked in the background.
func RunApp(logger *slog.Logger, conf *config.Config, in io.Reader) error {
	log := logger.With("component", "app")

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if conf.TimeSource == timesource.KindRedis && conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	source, err := timesource.New(ctx, conf.TimeSource, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not create time source: %w", err)
	}

	if closer, ok := source.(io.Closer); ok {
		defer func() {
			if err = closer.Close(); err != nil {
				log.Error("could not close time source", "error", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	manager := usecase.NewMatchManager(logger, source, metrics.New(registry), conf.EngineOptions())

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewHandler(registry)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	matchID, err := manager.CreateMatch(ctx)
	if err != nil {
		return fmt.Errorf("could not create match: %w", err)
	}

	timedOut := make(chan struct{})
	go runTicker(ctx, log, manager, matchID, conf.Clock.TickInterval, timedOut)

	inputDone := make(chan error, 1)
	go func() {
		inputDone <- playMatch(ctx, log, manager, matchID, in)
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-inputDone:
		if err != nil {
			return fmt.Errorf("match input failed: %w", err)
		}
	case <-timedOut:
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}

	logResult(log, manager, matchID)
	releaseFinished(log, manager)

	return nil
}

// releaseFinished drops ended matches from the manager so their engines can be collected.
func releaseFinished(log *slog.Logger, manager *usecase.MatchManager) {
	removed := manager.RemoveFinished()
	log.Info("Released finished matches", "removed", removed, "running", manager.Count())
}

func logResult(log *slog.Logger, manager *usecase.MatchManager, matchID string) {
	snapshot, err := manager.Snapshot(matchID)
	if err != nil {
		log.Error("could not read match", "error", err)
		return
	}

	log = log.With(
		"status", snapshot.Status.String(),
		"moves", snapshot.Moves,
		"remainingA", snapshot.RemainingFor(entity.PlayerA),
		"remainingB", snapshot.RemainingFor(entity.PlayerB),
	)

	winner, ok, _ := manager.Winner(matchID)
	if !ok {
		log.Info("Match over")
		return
	}

	log.Info("Match over", "winner", winner.String())
}
