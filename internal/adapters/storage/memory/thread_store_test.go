package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/regenai/regen-agent/internal/domain"
)

func pair(i int) (domain.Exchange, domain.Exchange) {
	return domain.Exchange{Role: domain.RoleUser, Content: fmt.Sprintf("u%d", i)},
		domain.Exchange{Role: domain.RoleAssistant, Content: fmt.Sprintf("a%d", i)}
}

func TestThreadStoreUnknownThreadIsEmpty(t *testing.T) {
	s := NewThreadStore(3)

	history, err := s.History(context.Background(), "missing")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("unknown thread must have empty history, got %d", len(history))
	}
}

func TestThreadStoreFIFOBound(t *testing.T) {
	ctx := context.Background()
	s := NewThreadStore(3)
	id := s.NewThreadID()

	for i := 1; i <= 5; i++ {
		u, a := pair(i)
		if err := s.AppendTurn(ctx, id, u, a); err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}

		history, err := s.History(ctx, id)
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		if len(history) > 6 {
			t.Fatalf("bound violated after turn %d: %d messages", i, len(history))
		}
	}

	history, _ := s.History(ctx, id)
	want := []string{"u3", "a3", "u4", "a4", "u5", "a5"}
	if len(history) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(history))
	}
	for i, w := range want {
		if history[i].Content != w {
			t.Fatalf("position %d: got %q, want %q (oldest must evict first)", i, history[i].Content, w)
		}
	}
}

func TestThreadStoreNewThreadIDsAreUnique(t *testing.T) {
	s := NewThreadStore(3)
	seen := make(map[domain.ThreadID]bool)
	for i := 0; i < 100; i++ {
		id := s.NewThreadID()
		if id == "" || seen[id] {
			t.Fatalf("thread id %q empty or repeated", id)
		}
		seen[id] = true
	}
}

func TestThreadStoreConcurrentAppendsSameThread(t *testing.T) {
	ctx := context.Background()
	s := NewThreadStore(3)
	id := s.NewThreadID()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, a := pair(i)
			_ = s.AppendTurn(ctx, id, u, a)
		}(i)
	}
	wg.Wait()

	history, err := s.History(ctx, id)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 6 {
		t.Fatalf("bound violated under concurrency: %d messages", len(history))
	}
	// Pairs must never be split by interleaved appends.
	for i := 0; i < len(history); i += 2 {
		if history[i].Role != domain.RoleUser || history[i+1].Role != domain.RoleAssistant {
			t.Fatalf("pair at %d interleaved: %v %v", i, history[i].Role, history[i+1].Role)
		}
		if history[i].Content[1:] != history[i+1].Content[1:] {
			t.Fatalf("pair at %d split: %q vs %q", i, history[i].Content, history[i+1].Content)
		}
	}
}

func TestThreadStoreHistoryReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewThreadStore(3)
	id := s.NewThreadID()

	u, a := pair(1)
	_ = s.AppendTurn(ctx, id, u, a)

	history, _ := s.History(ctx, id)
	history[0].Content = "mutated"

	again, _ := s.History(ctx, id)
	if again[0].Content != "u1" {
		t.Fatal("History must return a copy, not the internal slice")
	}
}
