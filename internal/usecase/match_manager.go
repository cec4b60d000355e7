package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/bulletconnect/internal/apperror"
	"github.com/rocketscienceinc/bulletconnect/internal/engine"
	"github.com/rocketscienceinc/bulletconnect/internal/entity"
	"github.com/rocketscienceinc/bulletconnect/internal/metrics"
)

type timeSource interface {
	Now(ctx context.Context) (time.Time, error)
}

type match struct {
	engine *engine.Engine
	// set once the terminal state has been logged and counted
	reported bool
}

// MatchManager owns the engines of every running match and feeds them
// timestamps from a shared time source.
type MatchManager struct {
	logger  *slog.Logger
	source  timeSource
	metrics *metrics.Collector
	opts    engine.Options

	mu      sync.RWMutex
	matches map[string]*match
}

func NewMatchManager(logger *slog.Logger, source timeSource, collector *metrics.Collector, opts engine.Options) *MatchManager {
	return &MatchManager{
		logger:  logger.With("component", "match_manager"),
		source:  source,
		metrics: collector,
		opts:    opts,
		matches: make(map[string]*match),
	}
}

func (that *MatchManager) CreateMatch(ctx context.Context) (string, error) {
	now, err := that.source.Now(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read time: %w", err)
	}

	eng, err := engine.New(that.opts, now)
	if err != nil {
		return "", fmt.Errorf("failed to create engine: %w", err)
	}

	id := uuid.NewString()

	that.mu.Lock()
	that.matches[id] = &match{engine: eng}
	that.mu.Unlock()

	that.metrics.MatchStarted()
	that.logger.Info("match created", "matchID", id, "width", eng.Width(), "height", eng.Height(), "connectN", eng.ConnectN())

	return id, nil
}

func (that *MatchManager) TakeInput(ctx context.Context, id string, column int) (entity.MoveOutcome, error) {
	log := that.logger.With("method", "TakeInput", "matchID", id, "column", column)

	m, err := that.get(id)
	if err != nil {
		return entity.MoveOutcome{}, err
	}

	now, err := that.source.Now(ctx)
	if err != nil {
		return entity.MoveOutcome{}, fmt.Errorf("failed to read time: %w", err)
	}

	outcome, err := m.engine.TakeInputAt(column, now)
	switch {
	case errors.Is(err, apperror.ErrInvalidMove):
		that.metrics.Move(metrics.MoveInvalid)
		log.Debug("move rejected", "error", err)
	case errors.Is(err, apperror.ErrGameOver):
		that.metrics.Move(metrics.MoveGameOver)
		log.Debug("move after game over", "error", err)
	case err == nil:
		that.metrics.Move(metrics.MoveAccepted)
		log.Debug("move accepted", "player", outcome.Player.String(), "row", outcome.Cell.Row)
	}

	// the flag may have fallen inside TakeInputAt as well as on a winning move
	that.reportIfFinished(id, m)

	if err != nil {
		return entity.MoveOutcome{}, fmt.Errorf("failed to take input: %w", err)
	}

	return outcome, nil
}

// Tick - advances the clocks of a single match.
func (that *MatchManager) Tick(ctx context.Context, id string) error {
	m, err := that.get(id)
	if err != nil {
		return err
	}

	now, err := that.source.Now(ctx)
	if err != nil {
		return fmt.Errorf("failed to read time: %w", err)
	}

	m.engine.TickTime(now)
	that.reportIfFinished(id, m)

	return nil
}

// TickAll - advances every match against one timestamp.
func (that *MatchManager) TickAll(ctx context.Context) error {
	now, err := that.source.Now(ctx)
	if err != nil {
		return fmt.Errorf("failed to read time: %w", err)
	}

	that.mu.RLock()
	running := make(map[string]*match, len(that.matches))
	for id, m := range that.matches {
		running[id] = m
	}
	that.mu.RUnlock()

	for id, m := range running {
		m.engine.TickTime(now)
		that.reportIfFinished(id, m)
	}

	return nil
}

func (that *MatchManager) Snapshot(id string) (engine.Snapshot, error) {
	m, err := that.get(id)
	if err != nil {
		return engine.Snapshot{}, err
	}

	return m.engine.Snapshot(), nil
}

func (that *MatchManager) Winner(id string) (entity.Token, bool, error) {
	m, err := that.get(id)
	if err != nil {
		return entity.Empty, false, err
	}

	winner, ok := m.engine.Winner()

	return winner, ok, nil
}

func (that *MatchManager) RemoveMatch(id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.matches[id]; !ok {
		return fmt.Errorf("%w: %s", apperror.ErrMatchNotFound, id)
	}

	delete(that.matches, id)
	that.metrics.MatchRemoved()

	return nil
}

// RemoveFinished - drops every match in a terminal state and returns how many were removed.
func (that *MatchManager) RemoveFinished() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	removed := 0
	for id, m := range that.matches {
		if m.engine.GameOver() {
			delete(that.matches, id)
			that.metrics.MatchRemoved()
			removed++
		}
	}

	return removed
}

func (that *MatchManager) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.matches)
}

func (that *MatchManager) get(id string) (*match, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	m, ok := that.matches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrMatchNotFound, id)
	}

	return m, nil
}

func (that *MatchManager) reportIfFinished(id string, m *match) {
	status := m.engine.Status()
	if !status.IsTerminal() {
		return
	}

	that.mu.Lock()
	if m.reported {
		that.mu.Unlock()
		return
	}
	m.reported = true
	that.mu.Unlock()

	that.metrics.MatchFinished(status.State)

	log := that.logger.With("matchID", id, "status", status.String())
	if winner, ok := m.engine.Winner(); ok {
		log = log.With("winner", winner.String())
	}
	log.Info("match finished",
		"remainingA", m.engine.RemainingTime(entity.PlayerA),
		"remainingB", m.engine.RemainingTime(entity.PlayerB),
	)
}
