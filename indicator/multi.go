package indicator

// Multi combines multiple Indicator implementations.
type Multi struct {
	indicators []Indicator
}

// NewMulti returns an indicator that drives every ind in order.
func NewMulti(ind ...Indicator) *Multi {
	return &Multi{indicators: ind}
}

// Idle implements Indicator.Idle.
func (m *Multi) Idle() {
	for _, ind := range m.indicators {
		ind.Idle()
	}
}

// Known implements Indicator.Known.
func (m *Multi) Known(owner string) {
	for _, ind := range m.indicators {
		ind.Known(owner)
	}
}

// Unknown implements Indicator.Unknown.
func (m *Multi) Unknown(uid string) {
	for _, ind := range m.indicators {
		ind.Unknown(uid)
	}
}

// Failed implements Indicator.Failed.
func (m *Multi) Failed() {
	for _, ind := range m.indicators {
		ind.Failed()
	}
}

// ConnectionLost implements Indicator.ConnectionLost.
func (m *Multi) ConnectionLost() {
	for _, ind := range m.indicators {
		ind.ConnectionLost()
	}
}

// Shutdown implements Indicator.Shutdown.
func (m *Multi) Shutdown() {
	for _, ind := range m.indicators {
		ind.Shutdown()
	}
}

// Release implements Indicator.Release.
func (m *Multi) Release() error {
	var lastErr error
	for _, ind := range m.indicators {
		if err := ind.Release(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
