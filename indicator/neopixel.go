package indicator

import (
	"fmt"
	"os"
)

// Neopixel command strings for the external neopixel tool.
const (
	neoConnectionLost = "@2 !150000 001010"
	neoNormalIdle     = "@3 !150000 400000"
	neoKnownCard      = "@1 !50000 8000"
	neoUnknownCard    = "@1 !50000 808000"
	neoFailed         = "@2 !10000 ff"
	neoTerminated     = "@0 010101"
)

// Neopixel implements Indicator using an external neopixel tool via named pipe.
type Neopixel struct {
	pipe       *os.File
	idleString string
}

// NewNeopixel creates a new Neopixel indicator.
func NewNeopixel(pipePath string) (*Neopixel, error) {
	f, err := os.OpenFile(pipePath, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open neopixel pipe %s: %w", pipePath, err)
	}

	// The reader is already open by the time an indicator exists.
	return &Neopixel{pipe: f, idleString: neoNormalIdle}, nil
}

// Idle implements Indicator.Idle.
func (n *Neopixel) Idle() {
	n.write(n.idleString)
}

// Known implements Indicator.Known.
func (n *Neopixel) Known(owner string) {
	n.write(neoKnownCard)
}

// Unknown implements Indicator.Unknown.
func (n *Neopixel) Unknown(uid string) {
	n.write(neoUnknownCard)
}

// Failed implements Indicator.Failed.
func (n *Neopixel) Failed() {
	n.write(neoFailed)
}

// ConnectionLost implements Indicator.ConnectionLost. The idle pattern
// stays on connection lost from then on.
func (n *Neopixel) ConnectionLost() {
	n.idleString = neoConnectionLost
	n.write(neoConnectionLost)
}

// Shutdown implements Indicator.Shutdown.
func (n *Neopixel) Shutdown() {
	n.write(neoTerminated)
}

// Release implements Indicator.Release.
func (n *Neopixel) Release() error {
	if n.pipe == nil {
		return nil
	}
	return n.pipe.Close()
}

func (n *Neopixel) write(s string) {
	if n.pipe != nil {
		n.pipe.Write([]byte(s + "\n"))
	}
}
