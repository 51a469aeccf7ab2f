// Package snapshot resolves the authoritative file tree of a project from a
// set of client-local snapshot stores. Stores hold opaque records in several
// historical formats; this package probes them defensively, extracts candidate
// path->content maps, and selects the subset of files worth syncing.
package snapshot

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FilesMap is an insertion-ordered mapping from file path to raw content
// value. Key enumeration order is significant: signatures, first-key probes
// and the last-resort selection tier all depend on it.
type FilesMap struct {
	om *orderedmap.OrderedMap[string, any]
}

// SignatureKeyCount is how many leading keys form a candidate's dedup
// signature. Two maps sharing their first ten keys are treated as the same
// candidate; an accepted approximation for uniform project trees.
const SignatureKeyCount = 10

func NewFilesMap() *FilesMap {
	return &FilesMap{om: orderedmap.New[string, any]()}
}

func (m *FilesMap) Set(path string, value any) {
	m.om.Set(path, value)
}

func (m *FilesMap) Get(path string) (any, bool) {
	return m.om.Get(path)
}

func (m *FilesMap) Len() int {
	return m.om.Len()
}

// Valid reports whether the map can serve as a candidate: at least one key.
func (m *FilesMap) Valid() bool {
	return m != nil && m.Len() > 0
}

// Keys returns all paths in insertion order.
func (m *FilesMap) Keys() []string {
	keys := make([]string, 0, m.om.Len())
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each walks entries in insertion order until fn returns false.
func (m *FilesMap) Each(fn func(path string, value any) bool) {
	for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Signature joins the first SignatureKeyCount keys into the dedup token
// used by the aggregator.
func (m *FilesMap) Signature() string {
	var sb strings.Builder
	n := 0
	for pair := m.om.Oldest(); pair != nil && n < SignatureKeyCount; pair = pair.Next() {
		if n > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(pair.Key)
		n++
	}
	return sb.String()
}

// objectView is a uniform read-only view over a record that may be raw JSON
// (document key order) or a live Go value (deterministic sorted key order).
// Only non-array objects produce a view.
type objectView interface {
	field(name string) (any, bool)
	firstKey() (string, bool)
	each(fn func(key string, value any) bool)
	size() int
}

// viewOf builds an object view, or reports false when the value is not a
// non-array object.
func viewOf(v any) (objectView, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case json.RawMessage:
		return newJSONView([]byte(t))
	case []byte:
		return newJSONView(t)
	case *FilesMap:
		if t == nil {
			return nil, false
		}
		return filesMapView{m: t}, true
	case map[string]any:
		if len(t) == 0 {
			return nil, false
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return mapView{m: t, keys: keys}, true
	default:
		return nil, false
	}
}

type jsonView struct {
	raw []byte
}

func newJSONView(raw []byte) (objectView, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	if _, _, _, err := jsonparser.Get(raw); err != nil {
		return nil, false
	}
	return jsonView{raw: raw}, true
}

// decodeJSONValue converts a jsonparser fragment into the value shape the
// rest of the pipeline works with: Go string for JSON strings, raw fragment
// for everything else.
func decodeJSONValue(value []byte, dataType jsonparser.ValueType) any {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return string(value)
		}
		return s
	case jsonparser.Null:
		return nil
	default:
		cp := make([]byte, len(value))
		copy(cp, value)
		return json.RawMessage(cp)
	}
}

func (v jsonView) field(name string) (any, bool) {
	value, dataType, _, err := jsonparser.Get(v.raw, name)
	if err != nil || dataType == jsonparser.NotExist {
		return nil, false
	}
	return decodeJSONValue(value, dataType), true
}

func (v jsonView) firstKey() (string, bool) {
	var first string
	found := false
	_ = jsonparser.ObjectEach(v.raw, func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
		if !found {
			first = string(key)
			found = true
		}
		return errStopIteration
	})
	return first, found
}

func (v jsonView) each(fn func(key string, value any) bool) {
	_ = jsonparser.ObjectEach(v.raw, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		if !fn(string(key), decodeJSONValue(value, dataType)) {
			return errStopIteration
		}
		return nil
	})
}

func (v jsonView) size() int {
	n := 0
	_ = jsonparser.ObjectEach(v.raw, func(_, _ []byte, _ jsonparser.ValueType, _ int) error {
		n++
		return nil
	})
	return n
}

// jsonparser aborts ObjectEach on any non-nil callback error; iteration
// helpers above reuse this sentinel and discard it.
var errStopIteration = errors.New("stop iteration")

type mapView struct {
	m    map[string]any
	keys []string
}

func (v mapView) field(name string) (any, bool) {
	val, ok := v.m[name]
	return val, ok
}

func (v mapView) firstKey() (string, bool) {
	if len(v.keys) == 0 {
		return "", false
	}
	return v.keys[0], true
}

func (v mapView) each(fn func(key string, value any) bool) {
	for _, k := range v.keys {
		if !fn(k, v.m[k]) {
			return
		}
	}
}

func (v mapView) size() int { return len(v.keys) }

type filesMapView struct {
	m *FilesMap
}

func (v filesMapView) field(name string) (any, bool) { return v.m.Get(name) }

func (v filesMapView) firstKey() (string, bool) {
	pair := v.m.om.Oldest()
	if pair == nil {
		return "", false
	}
	return pair.Key, true
}

func (v filesMapView) each(fn func(key string, value any) bool) { v.m.Each(fn) }

func (v filesMapView) size() int { return v.m.Len() }

// filesMapOf copies an object view into a FilesMap in enumeration order.
func filesMapOf(v objectView) *FilesMap {
	m := NewFilesMap()
	v.each(func(key string, value any) bool {
		m.Set(key, value)
		return true
	})
	return m
}
