package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/auth-portal/internal/core/domain"
)

type recordingSyncer struct {
	mu    sync.Mutex
	seen  map[string][]string
	fails map[string]bool
}

func newRecordingSyncer() *recordingSyncer {
	return &recordingSyncer{seen: make(map[string][]string), fails: make(map[string]bool)}
}

func (r *recordingSyncer) SyncAccount(_ context.Context, patch domain.AccountPatch) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fails[patch.ID] {
		return nil, errors.New("boom")
	}
	r.seen[patch.ID] = append(r.seen[patch.ID], *patch.FirstName)
	return &domain.Account{ID: patch.ID}, nil
}

func namePatch(id, name string) domain.AccountPatch {
	return domain.AccountPatch{ID: id, FirstName: &name}
}

func TestDispatcher_PreservesPerAccountOrder(t *testing.T) {
	syncer := newRecordingSyncer()
	d := NewDispatcher(4, syncer, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 50; i++ {
		for _, id := range []string{"a", "b", "c"} {
			if err := d.Enqueue(context.Background(), namePatch(id, fmt.Sprintf("v%d", i))); err != nil {
				t.Fatalf("enqueue: %v", err)
			}
		}
	}
	res := d.Close()

	if res.Synced != 150 || res.Failed != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	for _, id := range []string{"a", "b", "c"} {
		got := syncer.seen[id]
		if len(got) != 50 {
			t.Fatalf("account %s: expected 50 patches, got %d", id, len(got))
		}
		for i, name := range got {
			if name != fmt.Sprintf("v%d", i) {
				t.Fatalf("account %s: patch %d out of order: %s", id, i, name)
			}
		}
	}
}

func TestDispatcher_CountsFailures(t *testing.T) {
	syncer := newRecordingSyncer()
	syncer.fails["bad"] = true

	d := NewDispatcher(0, syncer, zerolog.Nop())
	d.Start(context.Background())
	ctx := context.Background()
	if err := d.Enqueue(ctx, namePatch("good", "x")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := d.Enqueue(ctx, namePatch("bad", "y")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if res := d.Close(); res.Synced != 1 || res.Failed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, newRecordingSyncer(), zerolog.Nop())
	first := d.shardIndex("acc-42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("acc-42"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
}

// stuckSyncer holds the first patch until ctx is cancelled.
type stuckSyncer struct {
	started chan struct{}
	once    sync.Once
}

func (s *stuckSyncer) SyncAccount(ctx context.Context, _ domain.AccountPatch) (*domain.Account, error) {
	s.once.Do(func() { close(s.started) })
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestDispatcher_EnqueueReturnsAfterCancel(t *testing.T) {
	syncer := &stuckSyncer{started: make(chan struct{})}
	d := NewDispatcher(1, syncer, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	if err := d.Enqueue(ctx, namePatch("a", "first")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	<-syncer.started
	for i := 0; i < channelBuffer; i++ {
		if err := d.Enqueue(ctx, namePatch("a", fmt.Sprintf("v%d", i))); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- d.Enqueue(ctx, namePatch("a", "late"))
	}()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Enqueue blocked after cancellation")
	}

	closed := make(chan Result, 1)
	go func() { closed <- d.Close() }()
	select {
	case res := <-closed:
		if res.Synced != 0 {
			t.Fatalf("nothing should sync after cancellation, got %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Close blocked after cancellation")
	}
}
