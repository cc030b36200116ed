// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// Search-engine result pages link to catalog track pages with anchor text
// in the catalog's page-title form: "Artist One, Artist Two - Title (Some
// Remix) [Label Name]". The anchors are the lowest-fidelity source of
// candidates and are only consulted when neither hydration JSON nor
// listing markup is present.
var engineAnchor = regexp.MustCompile(`<a[^>]+href="(?:https?://(?:www\.)?beatport\.com)?/track/([a-z0-9-]+)/(\d+)[^"]*"[^>]*>(.*?)</a>`)

var (
	htmlTag      = regexp.MustCompile(`<[^>]+>`)
	labelBracket = regexp.MustCompile(`\s*\[([^\]]+)\]\s*$`)
)

// engineAnchors extracts candidates from search-engine result anchors.
type engineAnchors struct{}

func (engineAnchors) name() string { return "engine-anchors" }

func (engineAnchors) applies(body string) bool {
	return strings.Contains(body, "beatport.com/track/")
}

func (engineAnchors) extract(body string) ([]types.Candidate, error) {
	seen := make(map[string]bool)
	var cands []types.Candidate

	for _, m := range engineAnchor.FindAllStringSubmatch(body, -1) {
		slug, id := m[1], m[2]
		if seen[id] {
			continue
		}

		text := strings.TrimSpace(htmlTag.ReplaceAllString(m[3], ""))
		artists, title, label := splitAnchorText(text)
		if title == "" {
			continue
		}
		seen[id] = true

		c := newCandidate(title, artists, "")
		c.ID = id
		c.Label = label
		c.URL = "https://www.beatport.com/track/" + slug + "/" + id
		cands = append(cands, c)
	}
	return cands, nil
}

// splitAnchorText parses "Artist One, Artist Two - Title (Mix) [Label]".
// Anchor text that does not follow the form is treated as a bare title.
func splitAnchorText(text string) (artists []string, title, label string) {
	if m := labelBracket.FindStringSubmatch(text); m != nil {
		label = strings.TrimSpace(m[1])
		text = labelBracket.ReplaceAllString(text, "")
	}

	parts := strings.SplitN(text, " - ", 2)
	if len(parts) != 2 {
		return nil, strings.TrimSpace(text), label
	}
	for _, a := range strings.Split(parts[0], ",") {
		if a = strings.TrimSpace(a); a != "" {
			artists = append(artists, a)
		}
	}
	return artists, strings.TrimSpace(parts[1]), label
}
