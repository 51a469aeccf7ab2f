package snapshot

import (
	"encoding/json"
	"testing"
)

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		record    any
		wantMatch bool
		wantKeys  []string
	}{
		{
			name:      "files field",
			record:    raw(`{"files":{"/home/project/a.ts":"x","/home/project/b.ts":"y"}}`),
			wantMatch: true,
			wantKeys:  []string{"/home/project/a.ts", "/home/project/b.ts"},
		},
		{
			name:      "snapshot.files envelope",
			record:    raw(`{"snapshot":{"files":{"src/main.ts":"m"}}}`),
			wantMatch: true,
			wantKeys:  []string{"src/main.ts"},
		},
		{
			name:      "record is the map itself",
			record:    raw(`{"/home/project/index.html":"<html/>","/home/project/app.ts":"a"}`),
			wantMatch: true,
			wantKeys:  []string{"/home/project/index.html", "/home/project/app.ts"},
		},
		{
			name:      "files field wins over snapshot.files",
			record:    raw(`{"files":{"a.ts":"1"},"snapshot":{"files":{"b.ts":"2"}}}`),
			wantMatch: true,
			wantKeys:  []string{"a.ts"},
		},
		{
			name:      "files field wins over project-root shape",
			record:    raw(`{"files":{"c.ts":"3"},"/home/project/x.ts":"ignored"}`),
			wantMatch: true,
			wantKeys:  []string{"c.ts"},
		},
		{
			name:      "array files field does not match",
			record:    raw(`{"files":[{"path":"a","content":"x"}]}`),
			wantMatch: false,
		},
		{
			name:      "empty files object falls through to no match",
			record:    raw(`{"files":{}}`),
			wantMatch: false,
		},
		{
			name:      "plain object without project-root first key",
			record:    raw(`{"meta":"nope","other":1}`),
			wantMatch: false,
		},
		{
			name:      "array record does not match",
			record:    raw(`[{"files":{"a":"x"}}]`),
			wantMatch: false,
		},
		{
			name:      "scalar record does not match",
			record:    raw(`"just a string"`),
			wantMatch: false,
		},
		{
			name: "live map record, sorted enumeration",
			record: map[string]any{
				"files": map[string]any{"b.ts": "2", "a.ts": "1"},
			},
			wantMatch: true,
			wantKeys:  []string{"a.ts", "b.ts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := Extract(tt.record)
			if ok != tt.wantMatch {
				t.Fatalf("Extract match = %v, want %v", ok, tt.wantMatch)
			}
			if !ok {
				return
			}
			keys := m.Keys()
			if len(keys) != len(tt.wantKeys) {
				t.Fatalf("keys = %v, want %v", keys, tt.wantKeys)
			}
			for i, k := range keys {
				if k != tt.wantKeys[i] {
					t.Errorf("key[%d] = %q, want %q", i, k, tt.wantKeys[i])
				}
			}
		})
	}
}

func TestExtractFilesFieldContent(t *testing.T) {
	m, ok := Extract(raw(`{"files":{"src/App.tsx":"export default 1"}}`))
	if !ok {
		t.Fatal("expected a match")
	}
	v, ok := m.Get("src/App.tsx")
	if !ok {
		t.Fatal("missing key")
	}
	if s, _ := v.(string); s != "export default 1" {
		t.Errorf("content = %v, want the raw string", v)
	}
}
