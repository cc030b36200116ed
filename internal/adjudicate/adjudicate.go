// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package adjudicate drives one track through the full pipeline: query
// planning, retrieval with escalating fallback, extraction, scoring,
// guarding, and the final disposition. Each track runs its own state
// machine to completion; tracks are independent and share nothing but the
// cache and the rate limiters.
package adjudicate

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/trackmatch/internal/audit"
	"github.com/pdiddy/trackmatch/internal/cache"
	"github.com/pdiddy/trackmatch/internal/extract"
	"github.com/pdiddy/trackmatch/internal/guard"
	"github.com/pdiddy/trackmatch/internal/plan"
	"github.com/pdiddy/trackmatch/internal/score"
	"github.com/pdiddy/trackmatch/internal/search"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// retryBackoff is the wait before the single retry of a failed fetch.
// Tests override this to avoid real sleeps.
var retryBackoff = 2 * time.Second

// state is the adjudicator's position in the per-track pipeline.
type state int

const (
	statePlanning state = iota
	stateRetrieving
	stateExtracting
	stateScoring
	stateDeciding
	stateDone
)

// Adjudicator owns the pipeline stages for a run. Construct once, then
// resolve any number of tracks concurrently.
type Adjudicator struct {
	cfg        types.Config
	strategies []search.Strategy
	cache      cache.Cache
	trail      *audit.Trail
	scorer     *score.Scorer
	guards     *guard.Chain
	w          io.Writer
}

// New wires an adjudicator. Strategies must be in escalation order
// (cheapest first); cfg must already be validated.
func New(cfg types.Config, strategies []search.Strategy, c cache.Cache, trail *audit.Trail, w io.Writer) *Adjudicator {
	if w == nil {
		w = io.Discard
	}
	if c == nil {
		c = cache.Disabled{}
	}
	return &Adjudicator{
		cfg:        cfg,
		strategies: strategies,
		cache:      c,
		trail:      trail,
		scorer:     score.New(cfg.Scoring),
		guards:     guard.New(cfg.Guards),
		w:          w,
	}
}

// run is the mutable state of one track's adjudication.
type run struct {
	track   types.SourceTrack
	queries []types.Query
	idx     int // next query rank to issue

	// Current rank's intermediate products.
	responses []fetched
	cands     []types.Candidate

	// Accumulated across ranks.
	seen     map[string]bool
	accepted []types.ScoredCandidate
	review   []types.ScoredCandidate
	reasons  []string
	sawAny   bool
	stop     bool // early termination: high-confidence accept landed
}

// fetched pairs a response with the query that produced it. Extraction
// runs eagerly because the escalation decision needs the candidate count
// the rung delivered.
type fetched struct {
	query        types.Query
	resp         types.RawResponse
	cacheHit     bool
	cands        []types.Candidate
	parseFailure string
}

// Resolve drives t's state machine to its terminal disposition and records
// it on the audit trail. Nothing short of cancellation aborts a track;
// retrieval and extraction failures degrade to empty results.
func (a *Adjudicator) Resolve(ctx context.Context, t types.SourceTrack) types.Disposition {
	r := &run{
		track:   t,
		queries: plan.Plan(t),
		seen:    make(map[string]bool),
	}

	st := statePlanning
	var d types.Disposition
	for st != stateDone {
		if ctx.Err() != nil {
			d = a.finish(types.Disposition{Track: t, Kind: types.DispositionUnmatched, Reason: "cancelled"})
			st = stateDone
			continue
		}

		switch st {
		case statePlanning:
			if r.stop || r.idx >= len(r.queries) {
				st = stateDeciding
				continue
			}
			st = stateRetrieving

		case stateRetrieving:
			r.responses = a.retrieve(ctx, r)
			st = stateExtracting

		case stateExtracting:
			r.cands = a.extractAll(r)
			r.idx++
			st = stateScoring

		case stateScoring:
			a.scoreAndGuard(r)
			st = statePlanning

		case stateDeciding:
			d = a.finish(a.decide(r))
			st = stateDone
		}
	}
	return d
}

// retrieve issues the current query through the strategy ladder, cache
// first. The first strategy always runs; escalation to the next rung is
// only for remix-labeled tracks that are still under the candidate-count
// threshold, or for any track whose prior rungs all failed outright.
func (a *Adjudicator) retrieve(ctx context.Context, r *run) []fetched {
	q := r.queries[r.idx]

	var out []fetched
	harvested := 0
	allFailed := true

	for i, strat := range a.strategies {
		if i > 0 && !a.shouldEscalate(r.track, harvested, allFailed) {
			break
		}
		if !strat.Available() {
			fmt.Fprintf(a.w, "warning: strategy %s unavailable, recall degraded\n", strat.Name())
			continue
		}

		issued := q
		issued.Strategy = strat.Tag()
		resp, hit := a.fetchCached(ctx, strat, issued)

		f := fetched{query: issued, resp: resp, cacheHit: hit}
		f.cands, f.parseFailure = extract.Extract(resp, issued.Rank)
		out = append(out, f)

		if resp.OK {
			allFailed = false
			harvested += len(f.cands)
		}
	}
	return out
}

// shouldEscalate applies the escalation policy before invoking rung i>0.
func (a *Adjudicator) shouldEscalate(t types.SourceTrack, harvested int, allFailed bool) bool {
	if t.HasRemix() {
		return harvested < a.cfg.Retrieval.EscalationMinCandidates
	}
	return allFailed
}

// fetchCached consults the cache before the network, stores successful
// fetches, and retries a failed fetch once with backoff before degrading
// the rank to an empty result.
func (a *Adjudicator) fetchCached(ctx context.Context, strat search.Strategy, q types.Query) (types.RawResponse, bool) {
	if resp, ok := a.cache.Get(q.Text, strat.Tag()); ok {
		resp.Strategy = strat.Tag()
		return resp, true
	}

	resp := strat.Fetch(ctx, q)
	for attempt := 0; !resp.OK && attempt < a.cfg.Retrieval.RetryMax && ctx.Err() == nil; attempt++ {
		select {
		case <-ctx.Done():
			return resp, false
		case <-time.After(retryBackoff):
		}
		resp = strat.Fetch(ctx, q)
	}

	if resp.OK {
		a.cache.Put(q.Text, strat.Tag(), resp)
	}
	return resp, false
}

// extractAll turns the rank's responses into deduplicated candidates and
// writes the query records, including parse failures, to the trail.
func (a *Adjudicator) extractAll(r *run) []types.Candidate {
	var cands []types.Candidate
	for _, f := range r.responses {
		if f.parseFailure != "" {
			fmt.Fprintf(a.w, "warning: %s: extraction failed: %s\n", r.track, f.parseFailure)
		}

		a.trail.RecordQuery(audit.QueryRecord{
			Track:        r.track.String(),
			Query:        f.query,
			Strategy:     f.query.Strategy,
			FetchedAt:    f.resp.FetchedAt,
			Elapsed:      f.resp.Elapsed,
			OK:           f.resp.OK,
			Err:          f.resp.Err,
			CacheHit:     f.cacheHit,
			ParseFailure: f.parseFailure,
		})

		for _, c := range f.cands {
			key := dedupKey(c)
			if r.seen[key] {
				continue
			}
			r.seen[key] = true
			cands = append(cands, c)
		}
	}
	return cands
}

// dedupKey collapses candidates that map to the same catalog item. Items
// without a catalog identifier fall back to their normalized identity.
func dedupKey(c types.Candidate) string {
	if c.ID != "" {
		return "id:" + c.ID
	}
	return "t:" + c.Title + "|" + strings.Join(c.Artists, ",") + "|" + c.Remix
}

// scoreAndGuard scores and guards the rank's candidates, updating the
// accepted and review sets and the audit trail.
func (a *Adjudicator) scoreAndGuard(r *run) {
	for _, c := range r.cands {
		r.sawAny = true
		sc := a.scorer.Score(r.track, c)

		ok, guardName, vetoReason := a.guards.Check(r.track, sc)
		accepted := ok && sc.Score >= a.cfg.Decision.MinAcceptScore

		a.trail.RecordCandidate(audit.CandidateRecord{
			Track:      r.track.String(),
			Candidate:  sc,
			Vetoed:     !ok,
			VetoGuard:  guardName,
			VetoReason: vetoReason,
			Accepted:   accepted,
		})

		switch {
		case accepted:
			r.accepted = append(r.accepted, sc)
			if sc.Score >= a.cfg.Decision.HighConfidence {
				r.stop = true
			}
		case !ok:
			r.reasons = append(r.reasons, guardName+": "+vetoReason)
		case sc.Score >= a.cfg.Decision.ReviewFloor:
			r.review = append(r.review, sc)
			r.reasons = append(r.reasons, fmt.Sprintf("score %.1f below acceptance %.1f", sc.Score, a.cfg.Decision.MinAcceptScore))
		}
	}
	r.cands = nil
	r.responses = nil
}

// decide computes the terminal disposition once no ranks remain or a
// high-confidence accept terminated the search early.
func (a *Adjudicator) decide(r *run) types.Disposition {
	if len(r.accepted) > 0 {
		best := r.accepted[0]
		for _, sc := range r.accepted[1:] {
			if sc.Score > best.Score ||
				(sc.Score == best.Score && sc.QueryRank < best.QueryRank) {
				best = sc
			}
		}
		return types.Disposition{Track: r.track, Kind: types.DispositionMatched, Match: &best}
	}

	if len(r.review) > 0 {
		sort.SliceStable(r.review, func(i, j int) bool {
			if r.review[i].Score != r.review[j].Score {
				return r.review[i].Score > r.review[j].Score
			}
			return r.review[i].QueryRank < r.review[j].QueryRank
		})
		return types.Disposition{
			Track:   r.track,
			Kind:    types.DispositionFlagged,
			Review:  r.review,
			Reasons: dedupeReasons(r.reasons),
		}
	}

	reason := "no results"
	if r.sawAny {
		reason = "no candidate met thresholds"
	}
	return types.Disposition{Track: r.track, Kind: types.DispositionUnmatched, Reason: reason}
}

// finish records the disposition exactly once and returns it.
func (a *Adjudicator) finish(d types.Disposition) types.Disposition {
	a.trail.RecordDisposition(d)
	return d
}

func dedupeReasons(reasons []string) []string {
	seen := make(map[string]bool, len(reasons))
	var out []string
	for _, r := range reasons {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
