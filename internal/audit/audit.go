// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audit keeps the append-only record of a run: every query
// issued, every candidate scored, and every final disposition, with
// enough context to reproduce and diagnose any decision. The trail is the
// pipeline's only output surface; the export collaborator serializes its
// four streams.
package audit

import (
	"sync"
	"time"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// QueryRecord is one issued query with its fetch outcome and timing.
type QueryRecord struct {
	Track     string            `json:"track" yaml:"track"`
	Query     types.Query       `json:"query" yaml:"query"`
	Strategy  types.StrategyTag `json:"strategy" yaml:"strategy"`
	FetchedAt time.Time         `json:"fetched_at" yaml:"fetched_at"`
	Elapsed   time.Duration     `json:"elapsed" yaml:"elapsed"`
	OK        bool              `json:"ok" yaml:"ok"`
	Err       string            `json:"err,omitempty" yaml:"err,omitempty"`
	CacheHit  bool              `json:"cache_hit" yaml:"cache_hit"`

	// ParseFailure is the extraction failure reason, if any.
	ParseFailure string `json:"parse_failure,omitempty" yaml:"parse_failure,omitempty"`
}

// CandidateRecord is one scored candidate with its guard verdict.
type CandidateRecord struct {
	Track     string                `json:"track" yaml:"track"`
	Candidate types.ScoredCandidate `json:"candidate" yaml:"candidate"`
	Vetoed    bool                  `json:"vetoed" yaml:"vetoed"`
	VetoGuard string                `json:"veto_guard,omitempty" yaml:"veto_guard,omitempty"`
	VetoReason string               `json:"veto_reason,omitempty" yaml:"veto_reason,omitempty"`
	Accepted  bool                  `json:"accepted" yaml:"accepted"`
}

// Trail is the append-only audit record for one run. Safe for concurrent
// appends from the worker pool.
type Trail struct {
	mu           sync.Mutex
	queries      []QueryRecord
	candidates   []CandidateRecord
	dispositions []types.Disposition
}

// New returns an empty trail.
func New() *Trail { return &Trail{} }

// RecordQuery appends one issued query.
func (t *Trail) RecordQuery(r QueryRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queries = append(t.queries, r)
}

// RecordCandidate appends one scored candidate.
func (t *Trail) RecordCandidate(r CandidateRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.candidates = append(t.candidates, r)
}

// RecordDisposition appends a track's terminal state. A disposition is
// written exactly once per track.
func (t *Trail) RecordDisposition(d types.Disposition) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dispositions = append(t.dispositions, d)
}

// Queries returns a copy of the issued-query stream.
func (t *Trail) Queries() []QueryRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]QueryRecord, len(t.queries))
	copy(out, t.queries)
	return out
}

// Candidates returns a copy of the scored-candidate stream.
func (t *Trail) Candidates() []CandidateRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]CandidateRecord, len(t.candidates))
	copy(out, t.candidates)
	return out
}

// Dispositions returns a copy of the disposition stream.
func (t *Trail) Dispositions() []types.Disposition {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.Disposition, len(t.dispositions))
	copy(out, t.dispositions)
	return out
}

// Flagged returns the dispositions held for manual review, with their
// retained candidates and reasons.
func (t *Trail) Flagged() []types.Disposition {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []types.Disposition
	for _, d := range t.dispositions {
		if d.Kind == types.DispositionFlagged {
			out = append(out, d)
		}
	}
	return out
}
