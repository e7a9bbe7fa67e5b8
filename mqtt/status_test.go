package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"rfidcam/pipeline"
)

type message struct {
	topic   string
	payload string
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []message
}

func (f *fakePublisher) Publish(topic, payload string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, message{topic, payload})
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func TestStatusPresenterPayload(t *testing.T) {
	tests := []struct {
		name   string
		result pipeline.Result
		want   ScanMessage
	}{
		{
			name:   "saved",
			result: pipeline.Result{UID: "23 91 8F 11", Owner: "Mehmet Can Çatık", Status: "Photo saved: 20250101_120000_23-91-8F-11.jpg"},
			want:   ScanMessage{UID: "23 91 8F 11", Owner: "Mehmet Can Çatık", Status: "Photo saved: 20250101_120000_23-91-8F-11.jpg", OK: true},
		},
		{
			name:   "failed",
			result: pipeline.Result{UID: "ZZ ZZ", Owner: "unknown", Status: "Error: no frame", Err: errors.New("no frame")},
			want:   ScanMessage{UID: "ZZ ZZ", Owner: "unknown", Status: "Error: no frame", OK: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			NewStatusPresenter(pub, "door-1").Present(tt.result)

			if len(pub.msgs) != 1 {
				t.Fatalf("expected one message, got %d", len(pub.msgs))
			}
			if pub.msgs[0].topic != "rfidcam/status/node/door-1/scan" {
				t.Errorf("unexpected topic %q", pub.msgs[0].topic)
			}
			var got ScanMessage
			if err := json.Unmarshal([]byte(pub.msgs[0].payload), &got); err != nil {
				t.Fatalf("payload is not JSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestStatusPresenterPing(t *testing.T) {
	pub := &fakePublisher{}
	s := NewStatusPresenter(pub, "door-1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Ping(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for pub.count() < 2 {
		select {
		case <-deadline:
			t.Fatal("no pings published")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if pub.msgs[0].topic != "rfidcam/status/node/door-1/ping" || pub.msgs[0].payload != `{"status":"ok"}` {
		t.Errorf("unexpected ping %+v", pub.msgs[0])
	}
}

func TestDisabledClient(t *testing.T) {
	c, err := New(Config{}, "door-1", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.IsEnabled() {
		t.Error("expected client without host to be disabled")
	}
	if err := c.Connect(); err != nil {
		t.Errorf("Connect on disabled client: %v", err)
	}
	c.Publish("rfidcam/status/node/door-1/scan", "{}")
	c.Disconnect()
}

func TestNewBadCACert(t *testing.T) {
	_, err := New(Config{Host: "broker.local", CACert: "/nonexistent/ca.pem"}, "door-1", nil)
	if err == nil {
		t.Error("expected error for unreadable CA cert")
	}
}
