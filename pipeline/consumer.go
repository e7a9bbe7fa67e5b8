package pipeline

import (
	"context"
	"time"
)

// DefaultPollPeriod is how often Run drains the results channel.
const DefaultPollPeriod = 100 * time.Millisecond

// Presenter shows results to the operator.
type Presenter interface {
	Present(r Result)
}

// PresentFunc adapts a (uid, owner, status) callback to a Presenter.
type PresentFunc func(uid, owner, status string)

// Present implements Presenter.
func (f PresentFunc) Present(r Result) {
	f(r.UID, r.Owner, r.Status)
}

// Presenters fans a result out to several presenters in order.
type Presenters []Presenter

// Present implements Presenter.
func (ps Presenters) Present(r Result) {
	for _, p := range ps {
		p.Present(r)
	}
}

// Consumer forwards worker results to a presenter. It never blocks
// waiting for a result.
type Consumer struct {
	in  <-chan Result
	out Presenter
}

// NewConsumer creates a consumer reading from results.
func NewConsumer(results <-chan Result, out Presenter) *Consumer {
	return &Consumer{in: results, out: out}
}

// Drain forwards every result queued right now, oldest first, and returns
// how many it forwarded. open is false once the worker has stopped and
// nothing is left to forward.
func (c *Consumer) Drain() (n int, open bool) {
	for {
		select {
		case r, ok := <-c.in:
			if !ok {
				return n, false
			}
			c.out.Present(r)
			n++
		default:
			return n, true
		}
	}
}

// Run drains the results channel every period until ctx is cancelled or
// the channel is closed and empty. A zero period selects DefaultPollPeriod.
func (c *Consumer) Run(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = DefaultPollPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, open := c.Drain(); !open {
				return
			}
		}
	}
}
