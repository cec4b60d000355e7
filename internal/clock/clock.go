// Package clock implements a single player's countdown.
//
// Remaining time is kept in whole milliseconds. Elapsed time is always
// derived from the timestamps handed to Tick, so irregular or dropped ticks
// do not skew the countdown.
package clock

import "time"

type Clock struct {
	remaining int64 // milliseconds
	lastTick  time.Time
	active    bool
}

// New - creates an inactive clock holding initial time. Negative values are clamped to zero.
func New(initial time.Duration) *Clock {
	return &Clock{remaining: max(initial.Milliseconds(), 0)}
}

// Tick - charges the time elapsed since the previous tick. No-op while inactive.
func (that *Clock) Tick(now time.Time) {
	if !that.active {
		return
	}

	// time went backwards: re-anchor without charging
	if now.Before(that.lastTick) {
		that.lastTick = now
		return
	}

	elapsed := now.Sub(that.lastTick).Milliseconds()

	// the sub-millisecond remainder stays on lastTick for the next tick
	that.lastTick = that.lastTick.Add(time.Duration(elapsed) * time.Millisecond)
	that.remaining = max(that.remaining-elapsed, 0)
}

func (that *Clock) Activate(now time.Time) {
	that.active = true
	that.lastTick = now
}

func (that *Clock) Deactivate() {
	that.active = false
}

func (that *Clock) Active() bool {
	return that.active
}

func (that *Clock) Expired() bool {
	return that.remaining == 0
}

func (that *Clock) Remaining() time.Duration {
	return time.Duration(that.remaining) * time.Millisecond
}

func (that *Clock) Millis() int64 {
	return that.remaining
}

// Hundredths - remaining time at display resolution.
func (that *Clock) Hundredths() int64 {
	return that.remaining / 10
}
