package pending

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreTakeRemoves(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	if err := s.Put(ctx, Selection{UserID: "u1", Item: "Potion", DisplayName: "Alice"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Take(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("Take: ok=%v err=%v", ok, err)
	}
	if got.Item != "Potion" || got.DisplayName != "Alice" {
		t.Fatalf("selection: got=%+v", got)
	}
	if _, ok, _ := s.Take(ctx, "u1"); ok {
		t.Fatalf("second Take: want absent")
	}
}

func TestMemoryStorePutOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	_ = s.Put(ctx, Selection{UserID: "u1", Item: "Potion"})
	_ = s.Put(ctx, Selection{UserID: "u1", Item: "Rock"})
	if s.Len() != 1 {
		t.Fatalf("Len: want=1 got=%d", s.Len())
	}
	got, _, _ := s.Take(ctx, "u1")
	if got.Item != "Rock" {
		t.Fatalf("Item: want=Rock got=%q", got.Item)
	}
}

func TestMemoryStoreKeyedByUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	_ = s.Put(ctx, Selection{UserID: "u1", Item: "Potion"})
	if _, ok, _ := s.Take(ctx, "u2"); ok {
		t.Fatalf("Take u2: want absent")
	}
	if _, ok, _ := s.Take(ctx, "u1"); !ok {
		t.Fatalf("Take u1: want present")
	}
}

func TestMemoryStoreNoExpiryByDefault(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	now := time.Unix(0, 0)
	s.now = func() time.Time { return now }
	_ = s.Put(ctx, Selection{UserID: "u1", Item: "Potion"})
	now = now.Add(365 * 24 * time.Hour)
	if _, ok, _ := s.Take(ctx, "u1"); !ok {
		t.Fatalf("Take: want present without ttl")
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Unix(0, 0)
	s.now = func() time.Time { return now }
	_ = s.Put(ctx, Selection{UserID: "u1", Item: "Potion"})
	now = now.Add(time.Minute)
	if _, ok, _ := s.Take(ctx, "u1"); ok {
		t.Fatalf("Take: want expired")
	}
	if s.Len() != 0 {
		t.Fatalf("expired entry should be dropped on take, Len=%d", s.Len())
	}
}

func TestMemoryStoreConcurrentTakeSingleWinner(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	_ = s.Put(ctx, Selection{UserID: "u1", Item: "Potion"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := s.Take(ctx, "u1"); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("winners: want=1 got=%d", wins)
	}
}

func TestMemoryStoreRestoreKeepsNewerSelection(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	old := Selection{UserID: "u1", Item: "Potion"}
	_ = s.Put(ctx, old)
	if _, _, err := s.Take(ctx, "u1"); err != nil {
		t.Fatalf("Take: %v", err)
	}
	// A new click lands before the rejected reply puts the old choice back.
	_ = s.Put(ctx, Selection{UserID: "u1", Item: "Rock"})
	held, err := s.Restore(ctx, old)
	if err != nil || held {
		t.Fatalf("Restore over newer: want held=false got held=%v err=%v", held, err)
	}
	got, _, _ := s.Take(ctx, "u1")
	if got.Item != "Rock" {
		t.Fatalf("Item: want=Rock got=%q", got.Item)
	}
}

func TestMemoryStoreRestoreWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	held, err := s.Restore(ctx, Selection{UserID: "u1", Item: "Potion"})
	if err != nil || !held {
		t.Fatalf("Restore: want held=true got held=%v err=%v", held, err)
	}
	got, ok, _ := s.Take(ctx, "u1")
	if !ok || got.Item != "Potion" {
		t.Fatalf("Take: want Potion got ok=%v %+v", ok, got)
	}
}

func TestMemoryStorePutSweepsExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Unix(0, 0)
	s.now = func() time.Time { return now }
	_ = s.Put(ctx, Selection{UserID: "u1", Item: "Potion"})
	_ = s.Put(ctx, Selection{UserID: "u2", Item: "Potion"})
	now = now.Add(2 * time.Minute)
	_ = s.Put(ctx, Selection{UserID: "u3", Item: "Rock"})
	if s.Len() != 1 {
		t.Fatalf("Len after sweep: want=1 got=%d", s.Len())
	}
	if _, ok, _ := s.Take(ctx, "u3"); !ok {
		t.Fatalf("Take u3: want present")
	}
}
