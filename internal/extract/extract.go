// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract parses raw retrieval responses into structured candidate
// records. Response shapes vary by catalog UI version and by retrieval
// strategy, so extraction is a set of strategies tried in priority order:
// the embedded hydration blob first (many responses render results
// client-side and the blob is the only static data present), then
// server-rendered listing markup, then search-engine result anchors. Each
// strategy declares its own applicability test.
//
// Extraction never fails hard: malformed input yields zero candidates plus
// a parse-failure reason for the audit trail.
package extract

import (
	"fmt"
	"strings"

	"github.com/pdiddy/trackmatch/internal/textutil"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// strategy is one extraction path. applies must be cheap; extract may
// return an error, which the driver converts into a logged reason.
type strategy interface {
	name() string
	applies(body string) bool
	extract(body string) ([]types.Candidate, error)
}

// strategies in priority order.
var strategies = []strategy{
	hydrationBlob{},
	listingMarkup{},
	engineAnchors{},
}

// Extract parses resp into candidates, tagging each with the originating
// query rank. The second return value is a parse-failure reason, empty on
// success; a response no strategy recognizes is a failure of shape, not an
// error.
func Extract(resp types.RawResponse, queryRank int) ([]types.Candidate, string) {
	if !resp.OK || resp.Body == "" {
		return nil, ""
	}

	for _, s := range strategies {
		if !s.applies(resp.Body) {
			continue
		}
		cands, err := s.extract(resp.Body)
		if err != nil {
			return nil, fmt.Sprintf("%s: %v", s.name(), err)
		}
		for i := range cands {
			cands[i].QueryRank = queryRank
		}
		return cands, ""
	}
	return nil, "no extraction strategy applies to response shape"
}

// newCandidate normalizes the text fields of an extracted listing: case
// folding, whitespace collapsing, and isolation of a remix label embedded
// in the title.
func newCandidate(title string, artists []string, remix string) types.Candidate {
	clean, embedded := textutil.SplitRemix(title)
	if remix == "" {
		remix = embedded
	}
	// The catalog labels plain releases "Original Mix"; that is the
	// absence of a remix, not a remix identity.
	if strings.EqualFold(strings.TrimSpace(remix), "original mix") {
		remix = ""
	}

	var normArtists []string
	for _, a := range artists {
		if a = textutil.Normalize(a); a != "" {
			normArtists = append(normArtists, a)
		}
	}

	return types.Candidate{
		Title:   textutil.Normalize(clean),
		Artists: normArtists,
		Remix:   textutil.Normalize(remix),
	}
}
