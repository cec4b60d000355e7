package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/bulletconnect/internal/windetector"
)

var ErrInvalidOptions = errors.New("invalid engine options")

// Options fixes the board and clock settings for a match.
type Options struct {
	Width       int
	Height      int
	ConnectN    int
	InitialTime time.Duration
}

// DefaultOptions - 7x6 board, four in a row, ten seconds per player.
func DefaultOptions() Options {
	return Options{
		Width:       7,
		Height:      6,
		ConnectN:    windetector.DefaultConnectN,
		InitialTime: 10 * time.Second,
	}
}

func (that Options) Validate() error {
	switch {
	case that.Width <= 0 || that.Height <= 0:
		return fmt.Errorf("%w: board %dx%d", ErrInvalidOptions, that.Width, that.Height)
	case that.ConnectN < 0:
		return fmt.Errorf("%w: connect-n %d", ErrInvalidOptions, that.ConnectN)
	case that.InitialTime < time.Millisecond:
		return fmt.Errorf("%w: initial time %s", ErrInvalidOptions, that.InitialTime)
	default:
		return nil
	}
}

func (that Options) connectN() int {
	if that.ConnectN == 0 {
		return windetector.DefaultConnectN
	}

	return that.ConnectN
}
