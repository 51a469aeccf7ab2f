package snapshot

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"
)

// FileEntry is one selected file with its content already normalized to text.
type FileEntry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// knownPrefixes mark paths that belong to a project source tree, in both
// leading-separator spellings.
var knownPrefixes = []string{
	"/home/project", "home/project",
	"/project", "project",
	"src/", "public/",
	"/client", "/server",
	"client/", "server/",
}

// rootFilenames are tool and manifest files that live at a project root and
// identify a usable tree on their own.
var rootFilenames = []string{
	"package.json",
	"vite.config.ts",
	"vite.config.js",
	"tsconfig.json",
	"tsconfig.node.json",
	"postcss.config.js",
	"tailwind.config.js",
	"index.html",
	"/home/project/package.json",
}

var fallbackPattern = regexp.MustCompile(`src/|public/|index\.html|package\.json|vite\.config`)

// MaxFallbackFiles bounds the last-resort tier.
const MaxFallbackFiles = 5000

// Base64Marker prefixes binary content that was base64-encoded during
// normalization.
const Base64Marker = "__base64:"

// flipSeparator returns the other spelling of a path: with the leading
// separator when absent, without it when present.
func flipSeparator(path string) string {
	if strings.HasPrefix(path, "/") {
		return strings.TrimPrefix(path, "/")
	}
	return "/" + path
}

// SelectFiles narrows a files map down to the entries worth uploading, using
// a four-tier fallback policy. The first non-empty tier wins:
//
//  1. exact matches of the preferred paths, in preferred order
//  2. keys under a known project prefix, plus root filenames
//  3. keys matching the source-tree fallback pattern
//  4. the first MaxFallbackFiles keys, unmodified
//
// Output is deduplicated by key, first occurrence wins, and content is
// normalized to text.
func SelectFiles(m *FilesMap, preferred []string) []FileEntry {
	if !m.Valid() {
		return nil
	}

	keys := selectPreferred(m, preferred)
	if len(keys) == 0 {
		keys = selectKnown(m)
	}
	if len(keys) == 0 {
		keys = selectPattern(m)
	}
	if len(keys) == 0 {
		keys = m.Keys()
		if len(keys) > MaxFallbackFiles {
			keys = keys[:MaxFallbackFiles]
		}
	}

	entries := make([]FileEntry, 0, len(keys))
	for _, k := range keys {
		value, _ := m.Get(k)
		entries = append(entries, FileEntry{Path: k, Content: NormalizeContent(value)})
	}
	return entries
}

// selectPreferred matches each preferred path against the key set in both
// spellings, preserving preferred-path order. A non-empty result is final.
func selectPreferred(m *FilesMap, preferred []string) []string {
	if len(preferred) == 0 {
		return nil
	}
	var keys []string
	taken := make(map[string]struct{})
	for _, p := range preferred {
		for _, spelling := range []string{p, flipSeparator(p)} {
			if _, ok := m.Get(spelling); !ok {
				continue
			}
			if _, dup := taken[spelling]; dup {
				continue
			}
			taken[spelling] = struct{}{}
			keys = append(keys, spelling)
		}
	}
	return keys
}

func selectKnown(m *FilesMap) []string {
	var keys []string
	taken := make(map[string]struct{})
	m.Each(func(path string, _ any) bool {
		if _, dup := taken[path]; dup {
			return true
		}
		if hasKnownPrefix(path) || isRootFilename(path) {
			taken[path] = struct{}{}
			keys = append(keys, path)
		}
		return true
	})
	return keys
}

func hasKnownPrefix(path string) bool {
	alt := flipSeparator(path)
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(path, prefix) || strings.HasPrefix(alt, prefix) {
			return true
		}
	}
	return false
}

func isRootFilename(path string) bool {
	for _, name := range rootFilenames {
		if path == name || strings.HasSuffix(path, name) {
			return true
		}
	}
	return false
}

func selectPattern(m *FilesMap) []string {
	var keys []string
	m.Each(func(path string, _ any) bool {
		if fallbackPattern.MatchString(path) {
			keys = append(keys, path)
		}
		return true
	})
	return keys
}

// contentFields are the wrapper fields a content value may hide behind.
var contentFields = []string{"content", "text", "data"}

// NormalizeContent converts a raw map value to text: strings pass through,
// wrapper objects are unwrapped via their content field, binary is
// base64-encoded behind Base64Marker, and everything else is
// JSON-serialized.
func NormalizeContent(value any) string {
	switch t := value.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return Base64Marker + base64.StdEncoding.EncodeToString(t)
	case json.RawMessage:
		return normalizeRaw([]byte(t))
	case map[string]any:
		for _, field := range contentFields {
			if inner, ok := t[field]; ok {
				return NormalizeContent(inner)
			}
		}
		return marshalFallback(t)
	default:
		return marshalFallback(t)
	}
}

func normalizeRaw(raw []byte) string {
	obj, ok := newJSONView(raw)
	if !ok {
		return strings.TrimSpace(string(raw))
	}
	for _, field := range contentFields {
		if inner, ok := obj.field(field); ok {
			return NormalizeContent(inner)
		}
	}
	return strings.TrimSpace(string(raw))
}

func marshalFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
