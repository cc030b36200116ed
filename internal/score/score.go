// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes the composite similarity between a source track
// and an extracted candidate. Scoring is a pure function of its two inputs
// under a fixed configuration: no history, no randomness, so a decision
// can be reproduced from the audit trail alone.
package score

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/pdiddy/trackmatch/internal/textutil"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// Scorer holds the run-fixed weights and the similarity metrics. The
// metrics are stateless and safe for concurrent use.
type Scorer struct {
	cfg    types.ScoringConfig
	title  *metrics.Levenshtein
	artist *metrics.JaroWinkler
}

// New builds a scorer. Titles are compared with normalized edit distance;
// artist names with Jaro-Winkler, which tolerates the truncations and
// prefix variations catalog listings introduce.
func New(cfg types.ScoringConfig) *Scorer {
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	return &Scorer{
		cfg:    cfg,
		title:  lev,
		artist: metrics.NewJaroWinkler(),
	}
}

// Score computes the composite score for (t, c) with its breakdown. The
// composite is clamped to [0,100].
func (s *Scorer) Score(t types.SourceTrack, c types.Candidate) types.ScoredCandidate {
	titleSim := s.titleSimilarity(t.Title, c.Title)
	artistSim := s.artistSimilarity(t.Artists, c.Artists)
	adjust := s.remixAdjustment(t.Remix, c.Remix)

	composite := s.cfg.TitleWeight*titleSim + s.cfg.ArtistWeight*artistSim + adjust
	if composite < 0 {
		composite = 0
	}
	if composite > 100 {
		composite = 100
	}

	return types.ScoredCandidate{
		Candidate: c,
		Score:     composite,
		Breakdown: types.ScoreBreakdown{
			Title:       titleSim,
			Artist:      artistSim,
			RemixAdjust: adjust,
		},
	}
}

// titleSimilarity compares cleaned titles: featuring suffixes and
// bracketed qualifiers are stripped from both sides first.
func (s *Scorer) titleSimilarity(source, candidate string) float64 {
	a := textutil.CleanTitle(source)
	b := textutil.CleanTitle(candidate)
	if a == "" || b == "" {
		return 0
	}
	return strutil.Similarity(a, b, s.title) * 100
}

// artistSimilarity is the best-alignment similarity between two artist
// lists. Each name on each side is matched to its best counterpart, which
// tolerates reordering and partial overlap; the two directional means are
// averaged so a candidate listing a superset of artists is not rewarded.
func (s *Scorer) artistSimilarity(source, candidate []string) float64 {
	if len(source) == 0 || len(candidate) == 0 {
		return 0
	}

	norm := func(names []string) []string {
		out := make([]string, 0, len(names))
		for _, n := range names {
			if n = textutil.Normalize(n); n != "" {
				out = append(out, n)
			}
		}
		return out
	}
	a, b := norm(source), norm(candidate)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	return (s.alignMean(a, b) + s.alignMean(b, a)) / 2 * 100
}

// alignMean is the mean best-match similarity of each name in from
// against the names in to.
func (s *Scorer) alignMean(from, to []string) float64 {
	var sum float64
	for _, f := range from {
		best := 0.0
		for _, t := range to {
			if sim := strutil.Similarity(f, t, s.artist); sim > best {
				best = sim
			}
		}
		sum += best
	}
	return sum / float64(len(from))
}

// remixAdjustment applies the remix-consistency rule. Both sides labeled:
// a bonus scaled by label similarity. One side labeled: a penalty, since a
// title-only match on a remix track is weak evidence. Neither labeled:
// no adjustment.
func (s *Scorer) remixAdjustment(source, candidate string) float64 {
	source = textutil.Normalize(source)
	candidate = textutil.Normalize(candidate)

	switch {
	case source != "" && candidate != "":
		return s.cfg.RemixBonus * strutil.Similarity(source, candidate, s.title)
	case source != "" || candidate != "":
		return -s.cfg.RemixPenalty
	default:
		return 0
	}
}
