package pipeline

import (
	"context"
	"testing"
	"time"
)

type recorder struct {
	got []Result
}

func (r *recorder) Present(res Result) {
	r.got = append(r.got, res)
}

func TestConsumerDrainsAllInOrder(t *testing.T) {
	ch := make(chan Result, 8)
	for _, uid := range []string{"A", "B", "C"} {
		ch <- Result{UID: uid}
	}

	rec := &recorder{}
	c := NewConsumer(ch, rec)

	n, open := c.Drain()
	if n != 3 || !open {
		t.Fatalf("expected 3 forwarded and open channel, got %d %v", n, open)
	}
	for i, want := range []string{"A", "B", "C"} {
		if rec.got[i].UID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, rec.got[i].UID)
		}
	}

	// Nothing queued: a no-op that does not block.
	if n, open := c.Drain(); n != 0 || !open {
		t.Errorf("expected empty drain, got %d %v", n, open)
	}
}

func TestConsumerDrainClosed(t *testing.T) {
	ch := make(chan Result, 1)
	ch <- Result{UID: "last"}
	close(ch)

	rec := &recorder{}
	n, open := NewConsumer(ch, rec).Drain()
	if n != 1 || open {
		t.Errorf("expected 1 forwarded and closed channel, got %d %v", n, open)
	}
}

func TestConsumerRunForwardsUntilClosed(t *testing.T) {
	ch := make(chan Result, 4)
	var got []string
	c := NewConsumer(ch, PresentFunc(func(uid, owner, status string) {
		got = append(got, uid+"|"+owner+"|"+status)
	}))

	done := make(chan struct{})
	go func() {
		c.Run(context.Background(), 5*time.Millisecond)
		close(done)
	}()

	ch <- Result{UID: "23 91 8F 11", Owner: "Mehmet", Status: "Photo saved: a.jpg"}
	ch <- Result{UID: "connection lost", Owner: "-", Status: "Serial port error: EOF"}
	close(ch)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after channel close")
	}

	want := []string{
		"23 91 8F 11|Mehmet|Photo saved: a.jpg",
		"connection lost|-|Serial port error: EOF",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestConsumerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewConsumer(make(chan Result), &recorder{})

	done := make(chan struct{})
	go func() {
		c.Run(ctx, 0)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

func TestPresentersFanOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Presenters{a, b}.Present(Result{UID: "X"})

	if len(a.got) != 1 || len(b.got) != 1 {
		t.Errorf("expected both presenters called once, got %d and %d", len(a.got), len(b.got))
	}
}
