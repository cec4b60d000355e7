package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/bulletconnect/internal/apperror"
	"github.com/rocketscienceinc/bulletconnect/internal/usecase"
)

// runTicker advances the clocks every interval and closes finished once the
// match has ended on time.
func runTicker(ctx context.Context, log *slog.Logger, manager *usecase.MatchManager, matchID string, interval time.Duration, finished chan<- struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := manager.TickAll(ctx); err != nil {
				log.Warn("tick failed", "error", err)
				continue
			}

			snapshot, err := manager.Snapshot(matchID)
			if err != nil {
				log.Error("match disappeared", "matchID", matchID, "error", err)
				return
			}

			if snapshot.Status.IsTimedOut() {
				close(finished)
				return
			}
		}
	}
}

// playMatch feeds one column per input line into the match until it ends or
// the input is exhausted.
func playMatch(ctx context.Context, log *slog.Logger, manager *usecase.MatchManager, matchID string, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		column, err := strconv.Atoi(line)
		if err != nil {
			log.Warn("not a column number", "input", line)
			continue
		}

		outcome, err := manager.TakeInput(ctx, matchID, column)
		switch {
		case errors.Is(err, apperror.ErrInvalidMove):
			log.Warn("invalid move", "column", column, "error", err)
			continue
		case errors.Is(err, apperror.ErrGameOver):
			return nil
		case err != nil:
			return fmt.Errorf("failed to take input: %w", err)
		}

		log.Info("Move",
			"player", outcome.Player.String(),
			"row", outcome.Cell.Row,
			"column", outcome.Cell.Col,
			"status", outcome.Status.String(),
		)

		if outcome.Status.IsTerminal() {
			return nil
		}

		if snapshot, err := manager.Snapshot(matchID); err == nil {
			next := outcome.Player.Opponent()
			log.Debug("Clock", "player", next.String(), "remainingCs", snapshot.HundredthsFor(next))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}
