// Package timesource supplies the timestamps that drive match clocks.
package timesource

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	KindSystem = "system"
	KindRedis  = "redis"
)

var ErrUnknownKind = errors.New("unknown time source kind")

type TimeSource interface {
	Now(ctx context.Context) (time.Time, error)
}

// New - builds the time source named by kind. redisAddr is only used for KindRedis.
func New(ctx context.Context, kind, redisAddr string) (TimeSource, error) {
	switch kind {
	case KindSystem, "":
		return NewSystem(), nil
	case KindRedis:
		source, err := NewRedis(ctx, redisAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis time source: %w", err)
		}

		return source, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// System reads the local wall clock.
type System struct {
	now func() time.Time
}

func NewSystem() *System {
	return &System{now: time.Now}
}

func (that *System) Now(_ context.Context) (time.Time, error) {
	return that.now(), nil
}
