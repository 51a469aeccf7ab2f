package snapshot

import (
	"context"
	"errors"
	"time"
)

// Defaults for the candidate poll loop.
const (
	DefaultPollBudget   = 8 * time.Second
	DefaultPollInterval = 350 * time.Millisecond

	// minSelectionSize triggers merge escalation when a single candidate
	// produced fewer entries than this.
	minSelectionSize = 5
)

var (
	// ErrNoCandidates means the poll budget expired without a single usable
	// candidate. Terminal; nothing to upload.
	ErrNoCandidates = errors.New("no project files found in any snapshot source")

	// ErrSelectionEmpty means candidates existed but no selection tier
	// produced an entry, even after merge escalation.
	ErrSelectionEmpty = errors.New("snapshot selection produced no files")
)

// Resolver drives the full read-aggregate-select cycle: poll the aggregator
// until a candidate holding the wanted paths shows up, select the files
// worth uploading, and escalate to a merged map when the selection is
// suspiciously small. Every call performs a fresh cycle; nothing is cached.
type Resolver struct {
	agg      *Aggregator
	budget   time.Duration
	interval time.Duration
}

type ResolverOption func(*Resolver)

func WithPollBudget(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.budget = d
		}
	}
}

func WithPollInterval(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.interval = d
		}
	}
}

func NewResolver(agg *Aggregator, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		agg:      agg,
		budget:   DefaultPollBudget,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the final deduplicated file list for upload. preferred
// holds paths known out of band to have just been written; when non-empty it
// dominates every heuristic tier.
func (r *Resolver) Resolve(ctx context.Context, preferred []string) ([]FileEntry, error) {
	best, candidates, err := r.waitForCandidate(ctx, preferred)
	if err != nil {
		return nil, err
	}

	entries := SelectFiles(best, preferred)
	if len(entries) < minSelectionSize && len(candidates) > 1 {
		merged := mergeCandidates(candidates)
		if retry := SelectFiles(merged, preferred); len(retry) >= len(entries) {
			entries = retry
		}
	}
	if len(entries) == 0 {
		return nil, ErrSelectionEmpty
	}
	return entries, nil
}

// waitForCandidate polls the aggregator until a candidate contains one of
// the preferred paths or a root filename, in either spelling. With no
// preferred paths the first candidate of the first sweep is accepted
// immediately. An exhausted budget falls back to the first candidate seen;
// none at all is ErrNoCandidates.
func (r *Resolver) waitForCandidate(ctx context.Context, preferred []string) (*FilesMap, []*FilesMap, error) {
	deadline := time.Now().Add(r.budget)
	var last []*FilesMap

	for {
		candidates := r.agg.Collect(ctx)
		last = candidates

		if len(candidates) > 0 {
			if len(preferred) == 0 {
				return candidates[0], candidates, nil
			}
			for _, c := range candidates {
				if holdsTarget(c, preferred) {
					return c, candidates, nil
				}
			}
		}

		if !time.Now().Before(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(r.interval):
		}
	}

	if len(last) > 0 {
		return last[0], last, nil
	}
	return nil, nil, ErrNoCandidates
}

// holdsTarget reports whether a candidate contains a preferred path or a
// fixed root filename as a key, in either spelling.
func holdsTarget(m *FilesMap, preferred []string) bool {
	for _, p := range preferred {
		if _, ok := m.Get(p); ok {
			return true
		}
		if _, ok := m.Get(flipSeparator(p)); ok {
			return true
		}
	}
	for _, name := range rootFilenames {
		if _, ok := m.Get(name); ok {
			return true
		}
		if _, ok := m.Get(flipSeparator(name)); ok {
			return true
		}
	}
	return false
}

// mergeCandidates unions candidates into one map, later candidates
// overwriting earlier ones on key collision. Candidate order does not
// guarantee recency, so a stale version may win on conflicting paths; kept
// as-is, matching the escalation behavior this replaces.
func mergeCandidates(candidates []*FilesMap) *FilesMap {
	merged := NewFilesMap()
	for _, c := range candidates {
		c.Each(func(path string, value any) bool {
			merged.Set(path, value)
			return true
		})
	}
	return merged
}
