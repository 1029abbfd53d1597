package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/saam/backend/internal/core/ports"
)

type stubEventRepo struct {
	mu     sync.Mutex
	events []ports.AuthEvent
	err    error
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e ports.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *stubEventRepo) snapshot() []ports.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.AuthEvent(nil), r.events...)
}

func TestDispatcher_PreservesPerEmailOrder(t *testing.T) {
	repo := &stubEventRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	outcomes := []string{"invalid_password", "invalid_password", "success"}
	for _, o := range outcomes {
		d.Record(ports.AuthEvent{Kind: "login", Email: "ana@x.com", Outcome: o, At: time.Now()})
	}
	d.Record(ports.AuthEvent{Kind: "register", Email: "bob@x.com", Outcome: "success", At: time.Now()})

	cancel()
	d.Wait()

	var ana []string
	for _, e := range repo.snapshot() {
		if e.Email == "ana@x.com" {
			ana = append(ana, e.Outcome)
		}
	}
	if len(ana) != len(outcomes) {
		t.Fatalf("expected %d events for ana, got %d", len(outcomes), len(ana))
	}
	for i := range outcomes {
		if ana[i] != outcomes[i] {
			t.Fatalf("event %d out of order: got %s want %s", i, ana[i], outcomes[i])
		}
	}
	if got := len(repo.snapshot()); got != 4 {
		t.Fatalf("expected 4 events, got %d", got)
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(0, &stubEventRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("ana@x.com")
	for i := 0; i < 10; i++ {
		if d.shardIndex("ana@x.com") != first {
			t.Fatalf("shard index must be deterministic")
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, &stubEventRepo{}, zerolog.Nop())

	// Not started: the buffer fills and further events are dropped without blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Record(ports.AuthEvent{Kind: "login", Email: "ana@x.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full queue")
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected full buffer, got %d", got)
	}
}

func TestDispatcher_WriteErrorDoesNotStopWorker(t *testing.T) {
	repo := &stubEventRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(ports.AuthEvent{Kind: "login", Email: "ana@x.com"})
	d.Record(ports.AuthEvent{Kind: "login", Email: "ana@x.com"})

	cancel()
	d.Wait()

	if got := len(repo.snapshot()); got != 0 {
		t.Fatalf("expected no stored events, got %d", got)
	}
}
