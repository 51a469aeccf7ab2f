package snapshot

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/buger/jsonparser"
)

// envelopeFields are the sub-fields a history record may wrap the real
// snapshot in, tried after the record itself failed to match.
var envelopeFields = []string{"snapshot", "data", "payload"}

// memorySourceFields are the file-bearing fields probed on injected
// in-memory objects.
var memorySourceFields = []string{"files", "vfs", "fs", "snapshot", "state", "_state"}

// Aggregator sweeps every known snapshot location and produces the ordered,
// deduplicated list of candidate file maps. It never fails: unreadable
// stores, missing collections and misshapen sources all degrade to skipped
// probes.
type Aggregator struct {
	primary Store
	legacy  Store
	sources []MemorySource
}

// NewAggregator wires the snapshot-history store, an optional legacy store
// holding the boltFiles collection, and zero or more in-memory sources.
// Either store may be nil.
func NewAggregator(primary, legacy Store, sources ...MemorySource) *Aggregator {
	return &Aggregator{primary: primary, legacy: legacy, sources: sources}
}

// Collect runs one full sweep. The result order is stable for unchanged
// store contents; duplicates (by first-ten-key signature) keep their first
// occurrence only.
func (a *Aggregator) Collect(ctx context.Context) []*FilesMap {
	var out []*FilesMap
	seen := make(map[string]struct{})

	keep := func(m *FilesMap) {
		if !m.Valid() {
			return
		}
		sig := m.Signature()
		if _, dup := seen[sig]; dup {
			return
		}
		seen[sig] = struct{}{}
		out = append(out, m)
	}

	for _, rec := range readAll(ctx, a.primary, SnapshotCollection) {
		if m, ok := extractEnveloped(rec); ok {
			keep(m)
		}
	}

	for _, m := range extractCollection(readAll(ctx, a.primary, FilesCollection)) {
		keep(m)
	}

	for _, rec := range readAll(ctx, a.primary, WorkspaceCollection) {
		if m, ok := Extract(rec); ok {
			keep(m)
		}
	}

	for _, m := range extractCollection(readAll(ctx, a.legacy, BoltFilesCollection)) {
		keep(m)
	}

	for _, src := range a.sources {
		for _, m := range probeMemorySource(src) {
			keep(m)
		}
	}

	return out
}

// readAll degrades every store failure to "no records".
func readAll(ctx context.Context, s Store, collection string) []any {
	if s == nil {
		return nil
	}
	records, err := s.ReadAll(ctx, collection)
	if err != nil {
		return nil
	}
	return records
}

// extractEnveloped tries the record itself, then its known envelope
// sub-fields, stopping at the first match.
func extractEnveloped(record any) (*FilesMap, bool) {
	if m, ok := Extract(record); ok {
		return m, true
	}
	obj, ok := viewOf(record)
	if !ok {
		return nil, false
	}
	for _, field := range envelopeFields {
		inner, ok := obj.field(field)
		if !ok {
			continue
		}
		if m, ok := Extract(inner); ok {
			return m, true
		}
	}
	return nil, false
}

// extractCollection handles a generic files collection: when its records are
// {path, content} entries they collapse into a single map, otherwise each
// record goes through direct extraction.
func extractCollection(records []any) []*FilesMap {
	if len(records) == 0 {
		return nil
	}
	if m, ok := collapseEntries(records); ok {
		return []*FilesMap{m}
	}
	var out []*FilesMap
	for _, rec := range records {
		if m, ok := Extract(rec); ok {
			out = append(out, m)
		}
	}
	return out
}

// collapseEntries folds an entry list into one FilesMap. Every record must
// expose a non-empty string "path"; otherwise the list does not collapse.
func collapseEntries(records []any) (*FilesMap, bool) {
	m := NewFilesMap()
	for _, rec := range records {
		obj, ok := viewOf(rec)
		if !ok {
			return nil, false
		}
		pathVal, ok := obj.field("path")
		if !ok {
			return nil, false
		}
		path, ok := pathVal.(string)
		if !ok || path == "" {
			return nil, false
		}
		content, _ := obj.field("content")
		if _, exists := m.Get(path); !exists {
			m.Set(path, content)
		}
	}
	if !m.Valid() {
		return nil, false
	}
	return m, true
}

// collapseArray is collapseEntries over a value that is itself an array,
// either a live slice or a raw JSON array.
func collapseArray(v any) (*FilesMap, bool) {
	switch t := v.(type) {
	case []any:
		return collapseEntries(t)
	case json.RawMessage:
		return collapseRawArray([]byte(t))
	case []byte:
		return collapseRawArray(t)
	default:
		return nil, false
	}
}

func collapseRawArray(raw []byte) (*FilesMap, bool) {
	if !strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		return nil, false
	}
	var records []any
	_, err := jsonparser.ArrayEach(raw, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		records = append(records, decodeJSONValue(value, dataType))
	})
	if err != nil || len(records) == 0 {
		return nil, false
	}
	return collapseEntries(records)
}

// probeMemorySource inspects one injected in-memory object. A panicking or
// absent source yields nothing; sources are host-supplied and untrusted.
func probeMemorySource(src MemorySource) (out []*FilesMap) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()

	value, ok := src()
	if !ok || value == nil {
		return nil
	}

	if m, ok := Extract(value); ok {
		out = append(out, m)
	}

	obj, ok := viewOf(value)
	if !ok {
		return out
	}
	for _, field := range memorySourceFields {
		inner, ok := obj.field(field)
		if !ok {
			continue
		}
		if m, ok := collapseArray(inner); ok {
			out = append(out, m)
			continue
		}
		if m, ok := Extract(inner); ok {
			out = append(out, m)
		}
	}
	return out
}
