package snapshot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// flakyStore stays empty for a number of reads, then serves records.
type flakyStore struct {
	mu        sync.Mutex
	emptyFor  int
	reads     int
	available []any
}

func (s *flakyStore) Name() string { return "flaky" }

func (s *flakyStore) ReadAll(_ context.Context, collection string) ([]any, error) {
	if collection != SnapshotCollection {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.reads <= s.emptyFor {
		return nil, nil
	}
	return s.available, nil
}

func fastResolver(agg *Aggregator) *Resolver {
	return NewResolver(agg,
		WithPollBudget(100*time.Millisecond),
		WithPollInterval(5*time.Millisecond),
	)
}

func TestResolveNoCandidates(t *testing.T) {
	agg := NewAggregator(&stubStore{name: "empty"}, nil)
	_, err := fastResolver(agg).Resolve(context.Background(), []string{"a.ts"})
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
}

func TestResolveFirstCandidateWithoutPreferred(t *testing.T) {
	primary := &stubStore{
		name: "history",
		records: map[string][]any{
			SnapshotCollection: {
				raw(`{"files":{"src/a.ts":"first"}}`),
				raw(`{"files":{"src/b.ts":"second"}}`),
			},
		},
	}
	entries, err := fastResolver(NewAggregator(primary, nil)).
		Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "src/a.ts" {
		t.Errorf("entries = %v, want the first candidate's file", entries)
	}
}

func TestResolveWaitsForPreferredPath(t *testing.T) {
	store := &flakyStore{
		emptyFor:  3,
		available: []any{raw(`{"files":{"src/new.ts":"fresh"}}`)},
	}
	entries, err := fastResolver(NewAggregator(store, nil)).
		Resolve(context.Background(), []string{"src/new.ts"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "src/new.ts" {
		t.Errorf("entries = %v, want the late-arriving preferred file", entries)
	}
}

func TestResolveFallsBackAfterBudget(t *testing.T) {
	// The preferred path never appears; the budget expires and the first
	// available candidate is used instead.
	primary := &stubStore{
		name: "history",
		records: map[string][]any{
			SnapshotCollection: {raw(`{"files":{"src/other.ts":"x"}}`)},
		},
	}
	agg := NewAggregator(primary, nil)
	r := NewResolver(agg,
		WithPollBudget(20*time.Millisecond),
		WithPollInterval(5*time.Millisecond),
	)
	entries, err := r.Resolve(context.Background(), []string{"src/missing.ts"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "src/other.ts" {
		t.Errorf("entries = %v, want the fallback candidate's files", entries)
	}
}

func TestResolveMergeEscalation(t *testing.T) {
	preferred := []string{"src/a.ts", "src/b.ts", "src/c.ts", "src/d.ts", "src/e.ts"}
	primary := &stubStore{
		name: "history",
		records: map[string][]any{
			SnapshotCollection: {
				// First candidate holds only three of the preferred paths.
				raw(`{"files":{"src/a.ts":"1","src/b.ts":"2","src/c.ts":"3"}}`),
				raw(`{"files":{"src/d.ts":"4","src/e.ts":"5"}}`),
			},
		},
	}
	entries, err := fastResolver(NewAggregator(primary, nil)).
		Resolve(context.Background(), preferred)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("entries = %d, want the merged selection of 5", len(entries))
	}
	for i, p := range preferred {
		if entries[i].Path != p {
			t.Errorf("entry[%d] = %q, want %q", i, entries[i].Path, p)
		}
	}
}

func TestResolveContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	agg := NewAggregator(&stubStore{name: "empty"}, nil)
	r := NewResolver(agg, WithPollBudget(time.Second), WithPollInterval(5*time.Millisecond))
	_, err := r.Resolve(ctx, []string{"a"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
