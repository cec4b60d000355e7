// Package engine runs a single match: board, turn order, win detection and
// the two players' clocks.
//
// The engine never schedules work on its own. Progress happens only inside
// TakeInput and TickTime, and every exported method is safe for concurrent
// use.
package engine

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rocketscienceinc/bulletconnect/internal/apperror"
	"github.com/rocketscienceinc/bulletconnect/internal/clock"
	"github.com/rocketscienceinc/bulletconnect/internal/entity"
	"github.com/rocketscienceinc/bulletconnect/internal/grid"
	"github.com/rocketscienceinc/bulletconnect/internal/windetector"
)

type Engine struct {
	mu sync.Mutex

	opts   Options
	grid   *grid.Grid
	turn   entity.Token
	clocks [2]*clock.Clock
	result entity.WinResult
	status entity.Status
	moves  int

	// last timestamp observed through New, Reset, TakeInputAt or TickTime
	now time.Time
}

// Snapshot is a read-only projection of the engine state.
type Snapshot struct {
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	ConnectN   int              `json:"connect_n"`
	Occupancy  []entity.Token   `json:"occupancy"`
	Turn       entity.Token     `json:"turn"`
	Status     entity.Status    `json:"status"`
	Result     entity.WinResult `json:"result"`
	Moves      int              `json:"moves"`
	Remaining  [2]time.Duration `json:"remaining"`
	// remaining time in hundredths of a second, as shown to players
	Hundredths [2]int64         `json:"hundredths"`
}

// RemainingFor - the player's remaining time; zero for Empty.
func (that Snapshot) RemainingFor(player entity.Token) time.Duration {
	switch player {
	case entity.PlayerA:
		return that.Remaining[0]
	case entity.PlayerB:
		return that.Remaining[1]
	default:
		return 0
	}
}

// HundredthsFor - the player's remaining time at display resolution; zero for Empty.
func (that Snapshot) HundredthsFor(player entity.Token) int64 {
	switch player {
	case entity.PlayerA:
		return that.Hundredths[0]
	case entity.PlayerB:
		return that.Hundredths[1]
	default:
		return 0
	}
}

// New - starts a match. PlayerA moves first and its clock runs from now.
func New(opts Options, now time.Time) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	that := &Engine{opts: opts}
	if err := that.reset(now); err != nil {
		return nil, err
	}

	return that, nil
}

// Reset - discards the current match and starts a new one with the same options.
func (that *Engine) Reset(now time.Time) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.reset(now)
}

func (that *Engine) reset(now time.Time) error {
	g, err := grid.New(that.opts.Width, that.opts.Height)
	if err != nil {
		return fmt.Errorf("failed to create grid: %w", err)
	}

	that.grid = g
	that.turn = entity.PlayerA
	that.clocks = [2]*clock.Clock{clock.New(that.opts.InitialTime), clock.New(that.opts.InitialTime)}
	that.result = entity.NoResult()
	that.status = entity.InProgress()
	that.moves = 0
	that.now = now
	that.clockOf(that.turn).Activate(now)

	return nil
}

// TakeInput - drops the current player's token into column, using the last
// observed timestamp for the clock hand-over.
func (that *Engine) TakeInput(column int) (entity.MoveOutcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.takeInput(column, that.now)
}

// TakeInputAt - like TakeInput, but first charges the mover for the time up
// to now. A mover whose clock runs out before the move gets ErrGameOver.
func (that *Engine) TakeInputAt(column int, now time.Time) (entity.MoveOutcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status.IsTerminal() {
		return entity.MoveOutcome{}, fmt.Errorf("take input: %w", apperror.ErrGameOver)
	}

	if _, err := that.grid.NextRow(column); err != nil {
		return entity.MoveOutcome{}, fmt.Errorf("take input: %w", err)
	}

	that.tickTime(now)

	return that.takeInput(column, that.now)
}

func (that *Engine) takeInput(column int, now time.Time) (entity.MoveOutcome, error) {
	if that.status.IsTerminal() {
		return entity.MoveOutcome{}, fmt.Errorf("take input: %w", apperror.ErrGameOver)
	}

	mover := that.turn

	cell, err := that.grid.Drop(column, mover)
	if err != nil {
		return entity.MoveOutcome{}, fmt.Errorf("take input: %w", err)
	}

	that.moves++
	that.turn = mover.Opponent()
	that.clockOf(mover).Deactivate()
	that.clockOf(that.turn).Activate(now)

	that.result = windetector.Evaluate(that.grid, cell, that.opts.connectN())
	switch {
	case that.result.IsWin():
		that.finish(entity.Status{State: entity.StatusWon, Player: that.result.Player})
	case that.result.IsDraw():
		that.finish(entity.Status{State: entity.StatusDraw})
	}

	return entity.MoveOutcome{
		Player: mover,
		Cell:   cell,
		Result: that.resultCopy(),
		Status: that.status,
	}, nil
}

// TickTime - advances the clock of the player to move. Running out of time
// ends the match as a timeout for that player.
func (that *Engine) TickTime(now time.Time) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.tickTime(now)
}

func (that *Engine) tickTime(now time.Time) {
	if that.status.IsTerminal() {
		return
	}

	if !now.Before(that.now) {
		that.now = now
	}

	active := that.clockOf(that.turn)
	active.Tick(now)

	if active.Expired() {
		that.finish(entity.Status{State: entity.StatusTimedOut, Player: that.turn})
	}
}

func (that *Engine) finish(status entity.Status) {
	that.status = status
	for _, c := range that.clocks {
		c.Deactivate()
	}
}

// GameOver - true for every terminal state: won, timed out or draw.
func (that *Engine) GameOver() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status.IsTerminal()
}

// GameWon is GameOver under the name the UI layer polls to stop its timer loop.
func (that *Engine) GameWon() bool {
	return that.GameOver()
}

// Winner - the board winner, or the opponent of a player who timed out.
func (that *Engine) Winner() (entity.Token, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch that.status.State {
	case entity.StatusWon:
		return that.status.Player, true
	case entity.StatusTimedOut:
		return that.status.Player.Opponent(), true
	default:
		return entity.Empty, false
	}
}

func (that *Engine) Status() entity.Status {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

// Result - outcome of the board evaluation after the last accepted move.
func (that *Engine) Result() entity.WinResult {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.resultCopy()
}

func (that *Engine) Turn() entity.Token {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turn
}

// ActivePlayer - owner of the running clock, if any.
func (that *Engine) ActivePlayer() (entity.Token, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, c := range that.clocks {
		if c.Active() {
			return entity.Players[i], true
		}
	}

	return entity.Empty, false
}

func (that *Engine) RemainingTime(player entity.Token) time.Duration {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !player.IsPlayer() {
		return 0
	}

	return that.clockOf(player).Remaining()
}

func (that *Engine) Width() int {
	return that.opts.Width
}

func (that *Engine) Height() int {
	return that.opts.Height
}

func (that *Engine) ConnectN() int {
	return that.opts.connectN()
}

func (that *Engine) Occupancy() []entity.Token {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.grid.Occupancy()
}

func (that *Engine) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return Snapshot{
		Width:      that.opts.Width,
		Height:     that.opts.Height,
		ConnectN:   that.opts.connectN(),
		Occupancy:  that.grid.Occupancy(),
		Turn:       that.turn,
		Status:     that.status,
		Result:     that.resultCopy(),
		Moves:      that.moves,
		Remaining:  [2]time.Duration{that.clocks[0].Remaining(), that.clocks[1].Remaining()},
		Hundredths: [2]int64{that.clocks[0].Hundredths(), that.clocks[1].Hundredths()},
	}
}

// resultCopy keeps callers from writing through to the engine's winning line.
func (that *Engine) resultCopy() entity.WinResult {
	result := that.result
	result.Line = slices.Clone(result.Line)

	return result
}

func (that *Engine) clockOf(player entity.Token) *clock.Clock {
	if player == entity.PlayerB {
		return that.clocks[1]
	}

	return that.clocks[0]
}
