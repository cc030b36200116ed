// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the domain model and configuration shared across
// pipeline stages.
package types

import (
	"strings"
	"time"
)

// SourceTrack is one locally-known track to resolve against the catalog.
// It is immutable input: created by the playlist collaborator and never
// mutated by the pipeline.
type SourceTrack struct {
	// Title is the track title as it appears in the playlist.
	Title string `json:"title" yaml:"title"`

	// Artists is the ordered, non-empty artist list. The first entry is
	// the primary artist.
	Artists []string `json:"artists" yaml:"artists"`

	// Remix is the remix/mix designation, if any (e.g. "Keinemusik Remix").
	Remix string `json:"remix,omitempty" yaml:"remix,omitempty"`

	// Year is an optional release-year hint (0 when unknown).
	Year int `json:"year,omitempty" yaml:"year,omitempty"`
}

// PrimaryArtist returns the first artist, or "" for a malformed track.
func (t SourceTrack) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// HasRemix reports whether the track carries a remix designation.
func (t SourceTrack) HasRemix() bool { return strings.TrimSpace(t.Remix) != "" }

// String renders a stable human-readable identity used for audit linkage.
func (t SourceTrack) String() string {
	s := strings.Join(t.Artists, ", ") + " - " + t.Title
	if t.HasRemix() {
		s += " (" + t.Remix + ")"
	}
	return s
}

// StrategyTag identifies a retrieval strategy.
type StrategyTag string

const (
	StrategyDirect  StrategyTag = "direct"
	StrategyEngine  StrategyTag = "engine"
	StrategyBrowser StrategyTag = "browser"
)

// Query is one generated search string. Queries are ephemeral: produced by
// the planner, consumed by retrieval strategies.
type Query struct {
	// Text is the search string sent to the strategy.
	Text string `json:"text" yaml:"text"`

	// Rank is the position in the planner's ordered sequence; lowest rank
	// is the most specific query.
	Rank int `json:"rank" yaml:"rank"`

	// Strategy tags the retrieval strategy the query was issued against.
	// Set by the adjudicator at issue time, not by the planner.
	Strategy StrategyTag `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// RawResponse is the opaque payload a retrieval strategy returned for one
// query, plus fetch metadata. Failures are reported here, never as panics
// or errors from Fetch.
type RawResponse struct {
	Strategy  StrategyTag   `json:"strategy" yaml:"strategy"`
	Body      string        `json:"body,omitempty" yaml:"body,omitempty"`
	FetchedAt time.Time     `json:"fetched_at" yaml:"fetched_at"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
	OK        bool          `json:"ok" yaml:"ok"`

	// Err describes the failure when OK is false.
	Err string `json:"err,omitempty" yaml:"err,omitempty"`
}

// Candidate is a structured catalog listing extracted from a RawResponse.
type Candidate struct {
	Title       string    `json:"title" yaml:"title"`
	Artists     []string  `json:"artists" yaml:"artists"`
	Remix       string    `json:"remix,omitempty" yaml:"remix,omitempty"`
	ID          string    `json:"id" yaml:"id"`
	ReleaseDate time.Time `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	BPM         int       `json:"bpm,omitempty" yaml:"bpm,omitempty"`
	Key         string    `json:"key,omitempty" yaml:"key,omitempty"`
	URL         string    `json:"url,omitempty" yaml:"url,omitempty"`

	// QueryRank is the rank of the query that produced this candidate,
	// used for tie-breaking between equal scores.
	QueryRank int `json:"query_rank" yaml:"query_rank"`
}

// ScoreBreakdown records the components of a composite score.
type ScoreBreakdown struct {
	// Title is the title similarity in [0,100].
	Title float64 `json:"title" yaml:"title"`

	// Artist is the artist-list alignment similarity in [0,100].
	Artist float64 `json:"artist" yaml:"artist"`

	// RemixAdjust is the remix-consistency adjustment in points,
	// bounded by the configured bonus/penalty.
	RemixAdjust float64 `json:"remix_adjust" yaml:"remix_adjust"`
}

// ScoredCandidate is a Candidate with its composite score. The score is a
// pure function of (SourceTrack, Candidate): no history dependence.
type ScoredCandidate struct {
	Candidate `yaml:",inline"`

	// Score is the composite score in [0,100].
	Score float64 `json:"score" yaml:"score"`

	Breakdown ScoreBreakdown `json:"breakdown" yaml:"breakdown"`
}

// DispositionKind classifies the terminal state of a track.
type DispositionKind string

const (
	DispositionMatched   DispositionKind = "matched"
	DispositionFlagged   DispositionKind = "flagged_for_review"
	DispositionUnmatched DispositionKind = "unmatched"
)

// Disposition is the terminal classification of one SourceTrack. It is the
// only pipeline value that outlives adjudication, flowing to the export
// collaborator.
type Disposition struct {
	Track SourceTrack     `json:"track" yaml:"track"`
	Kind  DispositionKind `json:"kind" yaml:"kind"`

	// Match is set only when Kind is DispositionMatched.
	Match *ScoredCandidate `json:"match,omitempty" yaml:"match,omitempty"`

	// Review holds review candidates when Kind is DispositionFlagged,
	// ordered by descending score.
	Review []ScoredCandidate `json:"review,omitempty" yaml:"review,omitempty"`

	// Reasons carries guard veto and threshold reasons for flagged tracks.
	Reasons []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`

	// Reason explains an unmatched disposition (e.g. "no results").
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}
