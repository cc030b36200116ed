// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package guard applies the hard veto predicates that run after scoring.
// A guard can reject a candidate regardless of its composite score; no
// score, however high, overrides a veto. Guards are evaluated in a fixed
// order and the first veto wins.
package guard

import (
	"fmt"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/pdiddy/trackmatch/internal/textutil"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// remixLabelSimilarityFloor is where two non-empty remix labels stop
// counting as the same remix. Above it, spelling drift ("Keinemusik Rmx")
// is tolerated; below it, the candidate is a different remix of the right
// song and must not be accepted.
const remixLabelSimilarityFloor = 0.85

// check is one veto predicate. It returns a veto reason, or "" to pass.
type check struct {
	name string
	fn   func(t types.SourceTrack, sc types.ScoredCandidate) string
}

// Chain is the ordered guard set for one run.
type Chain struct {
	checks []check
	labels *metrics.Levenshtein
}

// New builds the guard chain under cfg. Order matters: cheap lexical
// floors run before the remix identity comparison.
func New(cfg types.GuardConfig) *Chain {
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false

	c := &Chain{labels: lev}
	c.checks = []check{
		{name: "title_sim_floor", fn: func(_ types.SourceTrack, sc types.ScoredCandidate) string {
			if sc.Breakdown.Title < cfg.TitleSimFloor {
				return fmt.Sprintf("title similarity %.1f below floor %.1f", sc.Breakdown.Title, cfg.TitleSimFloor)
			}
			return ""
		}},
		{name: "title_token_coverage", fn: func(t types.SourceTrack, sc types.ScoredCandidate) string {
			coverage := tokenCoverage(t.Title, sc.Title)
			if coverage < cfg.TitleTokenCoverage {
				return fmt.Sprintf("title token coverage %.2f below %.2f", coverage, cfg.TitleTokenCoverage)
			}
			return ""
		}},
		{name: "remix_identity_conflict", fn: c.remixConflict},
	}
	return c
}

// Check runs the chain. It returns ok=true when every guard passes, or
// ok=false with the first veto's name and reason.
func (c *Chain) Check(t types.SourceTrack, sc types.ScoredCandidate) (ok bool, name, reason string) {
	for _, g := range c.checks {
		if r := g.fn(t, sc); r != "" {
			return false, g.name, r
		}
	}
	return true, "", ""
}

// remixConflict vetoes when both sides name a remix and the labels
// disagree: accepting a different remix of the right song is the costliest
// false positive this pipeline can make.
func (c *Chain) remixConflict(t types.SourceTrack, sc types.ScoredCandidate) string {
	source := textutil.Normalize(t.Remix)
	candidate := textutil.Normalize(sc.Remix)
	if source == "" || candidate == "" || source == candidate {
		return ""
	}
	if strutil.Similarity(source, candidate, c.labels) >= remixLabelSimilarityFloor {
		return ""
	}
	return fmt.Sprintf("remix label %q conflicts with %q", sc.Remix, t.Remix)
}

// tokenCoverage is the fraction of the source title's significant tokens
// that appear, in any order, among the candidate title's tokens.
func tokenCoverage(source, candidate string) float64 {
	sourceTokens := textutil.SignificantTokens(source)
	if len(sourceTokens) == 0 {
		return 1
	}

	candTokens := make(map[string]bool)
	for _, tok := range textutil.SignificantTokens(candidate) {
		candTokens[tok] = true
	}

	covered := 0
	for _, tok := range sourceTokens {
		if candTokens[tok] {
			covered++
		}
	}
	return float64(covered) / float64(len(sourceTokens))
}
