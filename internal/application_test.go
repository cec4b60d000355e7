package application

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rocketscienceinc/bulletconnect/internal/config"
	"github.com/rocketscienceinc/bulletconnect/internal/engine"
	"github.com/rocketscienceinc/bulletconnect/internal/entity"
	"github.com/rocketscienceinc/bulletconnect/internal/metrics"
	"github.com/rocketscienceinc/bulletconnect/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// steppingSource advances by step on every read.
type steppingSource struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (that *steppingSource) Now(_ context.Context) (time.Time, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.now = that.now.Add(that.step)

	return that.now, nil
}

func newManager(t *testing.T, step time.Duration, opts engine.Options) (*usecase.MatchManager, string) {
	t.Helper()

	source := &steppingSource{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC), step: step}
	manager := usecase.NewMatchManager(discardLogger, source, metrics.New(prometheus.NewRegistry()), opts)

	id, err := manager.CreateMatch(context.Background())
	require.NoError(t, err)

	return manager, id
}

func TestPlayMatch(t *testing.T) {
	opts := engine.Options{Width: 4, Height: 4, ConnectN: 3, InitialTime: time.Minute}

	t.Run("Plays until a win, skipping bad input", func(t *testing.T) {
		// Given: input with noise, an invalid column and a winning sequence
		manager, id := newManager(t, time.Millisecond, opts)
		in := strings.NewReader("0\n\nthree\n3\n9\n0\n3\n0\n1\n")

		// When: the match is played
		err := playMatch(context.Background(), discardLogger, manager, id, in)

		// Then: A wins and the trailing move is never applied
		require.NoError(t, err)
		snapshot, err := manager.Snapshot(id)
		require.NoError(t, err)
		assert.Equal(t, entity.Status{State: entity.StatusWon, Player: entity.PlayerA}, snapshot.Status)
		assert.Equal(t, 5, snapshot.Moves)
	})

	t.Run("Stops quietly when input runs out", func(t *testing.T) {
		manager, id := newManager(t, time.Millisecond, opts)

		err := playMatch(context.Background(), discardLogger, manager, id, strings.NewReader("1\n2\n"))

		require.NoError(t, err)
		snapshot, err := manager.Snapshot(id)
		require.NoError(t, err)
		assert.Equal(t, 2, snapshot.Moves)
		assert.False(t, snapshot.Status.IsTerminal())
	})

	t.Run("Stops on game over", func(t *testing.T) {
		// Given: a clock that jumps two minutes per read
		manager, id := newManager(t, 2*time.Minute, opts)

		// When: A tries to move
		err := playMatch(context.Background(), discardLogger, manager, id, strings.NewReader("1\n2\n"))

		// Then: A has already run out of time
		require.NoError(t, err)
		snapshot, err := manager.Snapshot(id)
		require.NoError(t, err)
		assert.True(t, snapshot.Status.IsTimedOut())
		assert.Equal(t, 0, snapshot.Moves)
	})
}

func TestRunTicker(t *testing.T) {
	// Given: a one second clock and a source that moves 100ms per read
	manager, id := newManager(t, 100*time.Millisecond, engine.Options{Width: 4, Height: 4, ConnectN: 3, InitialTime: time.Second})
	finished := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// When: the ticker runs
	go runTicker(ctx, discardLogger, manager, id, time.Millisecond, finished)

	// Then: the timeout is signaled
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("ticker never reported the timeout")
	}

	snapshot, err := manager.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, entity.Status{State: entity.StatusTimedOut, Player: entity.PlayerA}, snapshot.Status)
}

func TestRunApp(t *testing.T) {
	// Given: a local configuration with a generous clock
	conf := &config.Config{
		LogLevel:   "info",
		HTTPPort:   "0",
		Board:      config.Board{Width: 4, Height: 4, ConnectN: 3},
		Clock:      config.Clock{InitialTime: time.Minute, TickInterval: 10 * time.Millisecond},
		TimeSource: "system",
	}

	// When: the app plays a winning sequence
	err := RunApp(discardLogger, conf, strings.NewReader("0\n3\n0\n3\n0\n"))

	// Then: it returns once the match is over
	require.NoError(t, err)
}

func validConfig() *config.Config {
	return &config.Config{
		HTTPPort:   "0",
		Board:      config.Board{Width: 4, Height: 4, ConnectN: 3},
		Clock:      config.Clock{InitialTime: time.Minute, TickInterval: 10 * time.Millisecond},
		TimeSource: "system",
	}
}

func TestRunApp_RedisWithoutHost(t *testing.T) {
	conf := validConfig()
	conf.TimeSource = "redis"

	err := RunApp(discardLogger, conf, strings.NewReader(""))

	require.ErrorIs(t, err, ErrAddrNotFound)
}

func TestRunApp_InvalidTickInterval(t *testing.T) {
	// Given: a tick interval the ticker cannot run with
	conf := validConfig()
	conf.Clock.TickInterval = 0

	// When: the app starts
	err := RunApp(discardLogger, conf, strings.NewReader("0\n"))

	// Then: it refuses before starting the match
	require.ErrorIs(t, err, config.ErrInvalidTickInterval)
}

func TestReleaseFinished(t *testing.T) {
	// Given: one finished match and one still running
	opts := engine.Options{Width: 4, Height: 4, ConnectN: 3, InitialTime: time.Minute}
	manager, finishedID := newManager(t, time.Millisecond, opts)
	require.NoError(t, playMatch(context.Background(), discardLogger, manager, finishedID, strings.NewReader("0\n3\n0\n3\n0\n")))
	runningID, err := manager.CreateMatch(context.Background())
	require.NoError(t, err)

	// When: finished matches are released
	releaseFinished(discardLogger, manager)

	// Then: only the running match is left
	assert.Equal(t, 1, manager.Count())
	_, err = manager.Snapshot(finishedID)
	require.Error(t, err)
	_, err = manager.Snapshot(runningID)
	require.NoError(t, err)
}
