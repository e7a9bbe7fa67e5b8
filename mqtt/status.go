package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rfidcam/pipeline"
)

// PingInterval is how often Pinger reports liveness.
const PingInterval = 120 * time.Second

// Publisher sends a payload to a topic. *Client implements it.
type Publisher interface {
	Publish(topic string, payload string)
}

// ScanMessage is the JSON payload published for every scan result.
type ScanMessage struct {
	UID    string `json:"uid"`
	Owner  string `json:"owner"`
	Status string `json:"status"`
	OK     bool   `json:"ok"`
}

// StatusPresenter publishes scan results under
// rfidcam/status/node/<client_id>/.
type StatusPresenter struct {
	pub      Publisher
	clientID string
}

// NewStatusPresenter creates a presenter publishing through pub.
func NewStatusPresenter(pub Publisher, clientID string) *StatusPresenter {
	return &StatusPresenter{pub: pub, clientID: clientID}
}

// Present implements pipeline.Presenter.
func (s *StatusPresenter) Present(r pipeline.Result) {
	msg, err := json.Marshal(ScanMessage{
		UID:    r.UID,
		Owner:  r.Owner,
		Status: r.Status,
		OK:     r.Err == nil,
	})
	if err != nil {
		return
	}
	s.pub.Publish(s.topic("scan"), string(msg))
}

// Ping publishes a liveness message every interval until ctx is done.
func (s *StatusPresenter) Ping(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = PingInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pub.Publish(s.topic("ping"), `{"status":"ok"}`)
		}
	}
}

func (s *StatusPresenter) topic(leaf string) string {
	return fmt.Sprintf("rfidcam/status/node/%s/%s", s.clientID, leaf)
}
