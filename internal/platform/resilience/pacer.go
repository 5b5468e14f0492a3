package resilience

import (
	"context"
	"time"
)

// Pacer enforces a minimum delay between outbound provider calls.
// Wait blocks for at least d unless ctx is cancelled first.
type Pacer struct {
	newTimer func(d time.Duration) (<-chan time.Time, func() bool)
}

func NewPacer() *Pacer {
	return &Pacer{newTimer: func(d time.Duration) (<-chan time.Time, func() bool) {
		t := time.NewTimer(d)
		return t.C, t.Stop
	}}
}

func (p *Pacer) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	fire, stop := p.newTimer(d)
	select {
	case <-ctx.Done():
		stop()
		return ctx.Err()
	case <-fire:
		return nil
	}
}
