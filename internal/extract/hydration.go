// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// hydrationScript locates the embedded JSON payload carrying
// client-side-rendered page data.
var hydrationScript = regexp.MustCompile(`(?s)<script id="__NEXT_DATA__" type="application/json"[^>]*>(.*?)</script>`)

// hydrationPaths are the known key paths from the document root to the
// paginated query list. The catalog UI shifts the path between versions,
// so each alternate is attempted before giving up.
var hydrationPaths = [][]string{
	{"props", "pageProps", "dehydratedState", "queries"},
	{"props", "pageProps", "initialData", "queries"},
	{"props", "initialState", "queries"},
}

// resultListKeys are the keys under a query's state.data that may hold the
// result entries.
var resultListKeys = []string{"data", "results", "tracks"}

// hydrationBlob extracts candidates from the embedded hydration JSON.
type hydrationBlob struct{}

func (hydrationBlob) name() string { return "hydration" }

func (hydrationBlob) applies(body string) bool {
	return strings.Contains(body, `id="__NEXT_DATA__"`)
}

func (hydrationBlob) extract(body string) ([]types.Candidate, error) {
	m := hydrationScript.FindStringSubmatch(body)
	if len(m) < 2 {
		return nil, fmt.Errorf("hydration script tag present but payload not found")
	}

	var root map[string]any
	if err := json.Unmarshal([]byte(m[1]), &root); err != nil {
		return nil, fmt.Errorf("parsing hydration payload: %w", err)
	}

	queries := findQueryList(root)
	if queries == nil {
		return nil, fmt.Errorf("no known hydration key path present")
	}

	var cands []types.Candidate
	for _, q := range queries {
		qm, ok := q.(map[string]any)
		if !ok {
			continue
		}
		data := getMap(getMap(qm, "state"), "data")
		for _, key := range resultListKeys {
			for _, entry := range getList(data, key) {
				em, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				if c, ok := candidateFromEntry(em); ok {
					cands = append(cands, c)
				}
			}
		}
	}
	return cands, nil
}

// findQueryList walks each alternate key path and returns the first query
// list found.
func findQueryList(root map[string]any) []any {
	for _, path := range hydrationPaths {
		node := root
		for i, key := range path {
			if i == len(path)-1 {
				if list := getList(node, key); list != nil {
					return list
				}
				break
			}
			node = getMap(node, key)
			if node == nil {
				break
			}
		}
	}
	return nil
}

// candidateFromEntry maps one hydrated result entry to a Candidate. Field
// names drift between catalog API versions, so each field tolerates the
// known spellings.
func candidateFromEntry(entry map[string]any) (types.Candidate, bool) {
	title := firstString(entry, "track_name", "name", "title")
	if title == "" {
		return types.Candidate{}, false
	}

	var artists []string
	for _, a := range getList(entry, "artists") {
		am, ok := a.(map[string]any)
		if !ok {
			continue
		}
		if name := firstString(am, "artist_name", "name"); name != "" {
			artists = append(artists, name)
		}
	}

	c := newCandidate(title, artists, firstString(entry, "mix_name"))

	c.ID = firstString(entry, "track_id", "id")
	c.Label = firstString(getMap(entry, "label"), "name")
	if c.Label == "" {
		c.Label = firstString(entry, "label_name")
	}
	c.BPM = getInt(entry, "bpm")
	c.Key = firstString(getMap(entry, "key"), "name")
	if c.Key == "" {
		c.Key = firstString(entry, "key_name")
	}

	if date := firstString(entry, "publish_date", "new_release_date"); date != "" {
		if t, err := time.Parse("2006-01-02", date); err == nil {
			c.ReleaseDate = t
		}
	}

	if slug := firstString(entry, "slug"); slug != "" && c.ID != "" {
		c.URL = "https://www.beatport.com/track/" + slug + "/" + c.ID
	}
	return c, true
}

// Tolerant accessors for the loosely typed hydration payload.

func getMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

func getList(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	v, _ := m[key].([]any)
	return v
}

// firstString returns the first non-empty string value among keys. Numeric
// identifiers are rendered as their integer form.
func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

func getInt(m map[string]any, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}
