// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan generates the ordered sequence of search queries for one
// source track, from most specific to most permissive. Planning is pure:
// no randomness, no network access, and identical input always yields an
// identical sequence.
package plan

import (
	"strings"

	"github.com/pdiddy/trackmatch/internal/textutil"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// Plan produces the finite, strictly rank-ordered query sequence for t.
// Ranks, most specific first:
//
//	0: title + all artists + remix label (when present)
//	1: title + primary artist, remix label retained
//	2: title + primary artist, remix label dropped
//	3: punctuation and parentheticals stripped, primary artist only
//	4: stripped title + primary artist surname
//
// The planner never deduplicates across ranks; the adjudicator stops
// issuing ranks once a high-confidence match lands.
func Plan(t types.SourceTrack) []types.Query {
	primary := t.PrimaryArtist()

	var texts []string
	texts = append(texts, join(t.Title, strings.Join(t.Artists, " "), t.Remix))
	texts = append(texts, join(t.Title, primary, t.Remix))
	texts = append(texts, join(t.Title, primary, ""))

	stripped := textutil.StripPunct(textutil.CleanTitle(t.Title))
	texts = append(texts, join(stripped, textutil.StripPunct(primary), ""))
	texts = append(texts, join(stripped, textutil.Surname(primary), ""))

	queries := make([]types.Query, 0, len(texts))
	for _, text := range texts {
		text = textutil.Normalize(text)
		if text == "" {
			continue
		}
		queries = append(queries, types.Query{Text: text, Rank: len(queries)})
	}
	return queries
}

func join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
