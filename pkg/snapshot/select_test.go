package snapshot

import (
	"fmt"
	"reflect"
	"testing"
)

func mapOf(pairs ...string) *FilesMap {
	m := NewFilesMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func paths(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestSelectFilesPreferredSpellings(t *testing.T) {
	tests := []struct {
		name      string
		m         *FilesMap
		preferred []string
		want      []string
	}{
		{
			name:      "bare key matches bare preferred",
			m:         mapOf("a", "1", "b", "2"),
			preferred: []string{"a"},
			want:      []string{"a"},
		},
		{
			name:      "slash preferred matches bare key",
			m:         mapOf("a", "1"),
			preferred: []string{"/a"},
			want:      []string{"a"},
		},
		{
			name:      "bare preferred matches slash key",
			m:         mapOf("/a", "1"),
			preferred: []string{"a"},
			want:      []string{"/a"},
		},
		{
			name:      "preferred order preserved",
			m:         mapOf("x", "1", "y", "2", "z", "3"),
			preferred: []string{"z", "x"},
			want:      []string{"z", "x"},
		},
		{
			name:      "both spellings present are both collected",
			m:         mapOf("a", "1", "/a", "2"),
			preferred: []string{"a"},
			want:      []string{"a", "/a"},
		},
		{
			name:      "preferred tier is final even when known prefixes exist",
			m:         mapOf("src/keep.ts", "1", "other", "2"),
			preferred: []string{"other"},
			want:      []string{"other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paths(SelectFiles(tt.m, tt.preferred))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("paths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectFilesKnownPrefixTier(t *testing.T) {
	m := mapOf(
		"/home/project/package.json", "{}",
		"/home/project/src/App.tsx", "x",
	)
	got := paths(SelectFiles(m, nil))
	want := []string{"/home/project/package.json", "/home/project/src/App.tsx"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestSelectFilesRootFilenameSuffix(t *testing.T) {
	m := mapOf(
		"deep/nested/tailwind.config.js", "cfg",
		"unrelated/readme.md", "r",
	)
	got := paths(SelectFiles(m, nil))
	want := []string{"deep/nested/tailwind.config.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestSelectFilesPatternFallback(t *testing.T) {
	// No known prefix, no root filename, but the pattern hits.
	m := mapOf(
		"weird/vite.config.prod.mjs", "v",
		"docs/notes.txt", "n",
	)
	got := paths(SelectFiles(m, nil))
	want := []string{"weird/vite.config.prod.mjs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestSelectFilesLastResortCap(t *testing.T) {
	m := NewFilesMap()
	for i := 0; i < 6000; i++ {
		m.Set(fmt.Sprintf("blob-%06d.bin", i), "data")
	}
	got := SelectFiles(m, nil)
	if len(got) != MaxFallbackFiles {
		t.Fatalf("len = %d, want %d", len(got), MaxFallbackFiles)
	}
	if got[0].Path != "blob-000000.bin" || got[len(got)-1].Path != "blob-004999.bin" {
		t.Errorf("cap kept wrong window: first %q last %q", got[0].Path, got[len(got)-1].Path)
	}
}

func TestSelectFilesIdempotent(t *testing.T) {
	m := mapOf("src/a.ts", "1", "src/b.ts", "2", "package.json", "{}")
	first := SelectFiles(m, []string{"src/a.ts"})
	second := SelectFiles(m, []string{"src/a.ts"})
	if !reflect.DeepEqual(first, second) {
		t.Errorf("selection not idempotent: %v vs %v", first, second)
	}
}

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"plain string unchanged", "hello", "hello"},
		{"content wrapper", map[string]any{"content": "x"}, "x"},
		{"text wrapper", map[string]any{"text": "y"}, "y"},
		{"data wrapper", map[string]any{"data": "z"}, "z"},
		{"raw json content wrapper", raw(`{"content":"x"}`), "x"},
		{"binary marker", []byte{0x00, 0x01}, Base64Marker + "AAE="},
		{"nil empty", nil, ""},
		{"object fallback serializes", map[string]any{"a": 1.0}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeContent(tt.value); got != tt.want {
				t.Errorf("NormalizeContent = %q, want %q", got, tt.want)
			}
		})
	}
}
