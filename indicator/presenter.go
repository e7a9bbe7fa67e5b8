package indicator

import (
	"sync"
	"time"

	"rfidcam/owners"
	"rfidcam/pipeline"
)

// DefaultHold is how long a scan outcome stays lit.
const DefaultHold = 3 * time.Second

// Presenter shows scan results on an Indicator and falls back to idle
// after the hold time. A lost connection is not cleared.
type Presenter struct {
	ind  Indicator
	hold time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   int
	done  bool
}

// NewPresenter wraps ind. A zero hold selects DefaultHold.
func NewPresenter(ind Indicator, hold time.Duration) *Presenter {
	if hold <= 0 {
		hold = DefaultHold
	}
	ind.Idle()
	return &Presenter{ind: ind, hold: hold}
}

// Present implements pipeline.Presenter.
func (p *Presenter) Present(r pipeline.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}
	p.stopTimer()

	switch {
	case r.ConnectionLost():
		p.ind.ConnectionLost()
		return
	case r.Err != nil:
		p.ind.Failed()
	case r.Owner == owners.Unknown:
		p.ind.Unknown(r.UID)
	default:
		p.ind.Known(r.Owner)
	}

	gen := p.gen
	p.timer = time.AfterFunc(p.hold, func() { p.idle(gen) })
}

// Close shows the shutdown state and releases the indicator.
func (p *Presenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return nil
	}
	p.done = true
	p.stopTimer()
	p.ind.Shutdown()
	return p.ind.Release()
}

func (p *Presenter) idle(gen int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A newer result replaced the one this timer was armed for.
	if p.done || gen != p.gen {
		return
	}
	p.timer = nil
	p.ind.Idle()
}

func (p *Presenter) stopTimer() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
