package entity

import "fmt"

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusTimedOut   = "timed_out"
	StatusDraw       = "draw"
)

// Status is the engine state. Player is the winner for StatusWon and the
// player whose clock ran out for StatusTimedOut.
type Status struct {
	State  string `json:"state"`
	Player Token  `json:"player,omitempty"`
}

func InProgress() Status {
	return Status{State: StatusInProgress}
}

func (that Status) IsTerminal() bool {
	switch that.State {
	case StatusWon, StatusTimedOut, StatusDraw:
		return true
	default:
		return false
	}
}

func (that Status) IsWon() bool {
	return that.State == StatusWon
}

func (that Status) IsTimedOut() bool {
	return that.State == StatusTimedOut
}

func (that Status) IsDraw() bool {
	return that.State == StatusDraw
}

func (that Status) String() string {
	switch that.State {
	case StatusWon, StatusTimedOut:
		return fmt.Sprintf("%s(%s)", that.State, that.Player)
	default:
		return that.State
	}
}
