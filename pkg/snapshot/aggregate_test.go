package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubStore returns canned records per collection and can fail on demand.
type stubStore struct {
	name    string
	records map[string][]any
	failAll bool
}

func (s *stubStore) Name() string { return s.name }

func (s *stubStore) ReadAll(_ context.Context, collection string) ([]any, error) {
	if s.failAll {
		return nil, errors.New("store unavailable")
	}
	return s.records[collection], nil
}

func TestAggregatorSnapshotEnvelopes(t *testing.T) {
	primary := &stubStore{
		name: "snapshot-history",
		records: map[string][]any{
			SnapshotCollection: {
				raw(`{"files":{"a.ts":"1"}}`),
				raw(`{"snapshot":{"files":{"b.ts":"2"}}}`),
				raw(`{"data":{"files":{"c.ts":"3"}}}`),
				raw(`{"payload":{"files":{"d.ts":"4"}}}`),
				raw(`{"junk":true}`),
			},
		},
	}

	got := NewAggregator(primary, nil).Collect(context.Background())
	if len(got) != 4 {
		t.Fatalf("candidates = %d, want 4", len(got))
	}
	wantFirst := []string{"a.ts", "b.ts", "c.ts", "d.ts"}
	for i, m := range got {
		if keys := m.Keys(); keys[0] != wantFirst[i] {
			t.Errorf("candidate %d first key = %q, want %q", i, keys[0], wantFirst[i])
		}
	}
}

func TestAggregatorFilesCollectionCollapse(t *testing.T) {
	primary := &stubStore{
		name: "snapshot-history",
		records: map[string][]any{
			FilesCollection: {
				raw(`{"path":"src/a.ts","content":"1"}`),
				raw(`{"path":"src/b.ts","content":"2"}`),
			},
		},
	}

	got := NewAggregator(primary, nil).Collect(context.Background())
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1 collapsed map", len(got))
	}
	if got[0].Len() != 2 {
		t.Errorf("collapsed len = %d, want 2", got[0].Len())
	}
	v, _ := got[0].Get("src/a.ts")
	if s, _ := v.(string); s != "1" {
		t.Errorf("collapsed content = %v, want %q", v, "1")
	}
}

func TestAggregatorDedupBySignature(t *testing.T) {
	// Same first-ten-key signature in two different collections keeps only
	// the first occurrence.
	primary := &stubStore{
		name: "snapshot-history",
		records: map[string][]any{
			SnapshotCollection:  {raw(`{"files":{"a.ts":"old"}}`)},
			WorkspaceCollection: {raw(`{"files":{"a.ts":"new"}}`)},
		},
	}

	got := NewAggregator(primary, nil).Collect(context.Background())
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1 after dedup", len(got))
	}
	v, _ := got[0].Get("a.ts")
	if s, _ := v.(string); s != "old" {
		t.Errorf("dedup kept %v, want the first occurrence", v)
	}
}

func TestAggregatorDegradesOnStoreFailure(t *testing.T) {
	primary := &stubStore{name: "broken", failAll: true}
	legacy := &stubStore{
		name: "legacy",
		records: map[string][]any{
			BoltFilesCollection: {raw(`{"path":"x.ts","content":"ok"}`)},
		},
	}

	got := NewAggregator(primary, legacy).Collect(context.Background())
	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1 from the healthy store", len(got))
	}
}

func TestAggregatorMemorySources(t *testing.T) {
	vfsSource := func() (any, bool) {
		return map[string]any{
			"vfs": map[string]any{"files": map[string]any{"m.ts": "mem"}},
		}, true
	}
	absent := func() (any, bool) { return nil, false }
	panicking := func() (any, bool) { panic("host object went away") }
	arrayShaped := func() (any, bool) {
		return map[string]any{
			"state": []any{
				map[string]any{"path": "s.ts", "content": "st"},
			},
		}, true
	}

	got := NewAggregator(nil, nil, vfsSource, absent, panicking, arrayShaped).
		Collect(context.Background())
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got))
	}
	if _, ok := got[0].Get("m.ts"); !ok {
		t.Error("vfs source candidate missing")
	}
	if _, ok := got[1].Get("s.ts"); !ok {
		t.Error("array-collapsed source candidate missing")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore("history", time.Minute)
	s.Put(SnapshotCollection, "snap-001", raw(`{"files":{"a.ts":"1"}}`))
	s.Put(SnapshotCollection, "snap-002", raw(`{"files":{"b.ts":"2"}}`))

	records, err := s.ReadAll(context.Background(), SnapshotCollection)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	// Missing collection is empty, not an error.
	records, err = s.ReadAll(context.Background(), "nope")
	if err != nil || len(records) != 0 {
		t.Errorf("missing collection: records=%v err=%v, want empty and nil", records, err)
	}
}
