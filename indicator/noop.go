package indicator

// Noop implements Indicator but does nothing.
// Used when no indicators are configured.
type Noop struct{}

// Idle implements Indicator.Idle.
func (n *Noop) Idle() {}

// Known implements Indicator.Known.
func (n *Noop) Known(owner string) {}

// Unknown implements Indicator.Unknown.
func (n *Noop) Unknown(uid string) {}

// Failed implements Indicator.Failed.
func (n *Noop) Failed() {}

// ConnectionLost implements Indicator.ConnectionLost.
func (n *Noop) ConnectionLost() {}

// Shutdown implements Indicator.Shutdown.
func (n *Noop) Shutdown() {}

// Release implements Indicator.Release.
func (n *Noop) Release() error {
	return nil
}
