// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// Server-rendered listing markup. Rows carry data-testid attributes; each
// row holds the track link, a mix-name span, artist and label anchors, and
// optional tempo metadata.
const listingRowMarker = `data-testid="tracks-table-row"`

var (
	listingTrackLink = regexp.MustCompile(`<a[^>]+href="/track/([a-z0-9-]+)/(\d+)"[^>]*>([^<]+)</a>`)
	listingMixName   = regexp.MustCompile(`<span[^>]*data-testid="track-mix-name"[^>]*>([^<]*)</span>`)
	listingArtist    = regexp.MustCompile(`<a[^>]+href="/artist/[a-z0-9-]+/\d+"[^>]*>([^<]+)</a>`)
	listingLabel     = regexp.MustCompile(`<a[^>]+href="/label/[a-z0-9-]+/\d+"[^>]*>([^<]+)</a>`)
	listingDate      = regexp.MustCompile(`<span[^>]*data-testid="track-date"[^>]*>(\d{4}-\d{2}-\d{2})</span>`)
	listingBPM       = regexp.MustCompile(`(\d{2,3})\s*BPM`)
)

// listingMarkup extracts candidates from server-rendered catalog rows.
type listingMarkup struct{}

func (listingMarkup) name() string { return "listing" }

func (listingMarkup) applies(body string) bool {
	return strings.Contains(body, listingRowMarker)
}

func (listingMarkup) extract(body string) ([]types.Candidate, error) {
	rows := strings.Split(body, listingRowMarker)
	if len(rows) < 2 {
		return nil, nil
	}

	var cands []types.Candidate
	for _, row := range rows[1:] {
		link := listingTrackLink.FindStringSubmatch(row)
		if link == nil {
			continue
		}
		slug, id, title := link[1], link[2], strings.TrimSpace(link[3])
		if title == "" {
			continue
		}

		var remix string
		if m := listingMixName.FindStringSubmatch(row); m != nil {
			remix = strings.TrimSpace(m[1])
		}

		var artists []string
		for _, m := range listingArtist.FindAllStringSubmatch(row, -1) {
			artists = append(artists, strings.TrimSpace(m[1]))
		}

		c := newCandidate(title, artists, remix)
		c.ID = id
		c.URL = "https://www.beatport.com/track/" + slug + "/" + id

		if m := listingLabel.FindStringSubmatch(row); m != nil {
			c.Label = strings.TrimSpace(m[1])
		}
		if m := listingDate.FindStringSubmatch(row); m != nil {
			if t, err := time.Parse("2006-01-02", m[1]); err == nil {
				c.ReleaseDate = t
			}
		}
		if m := listingBPM.FindStringSubmatch(row); m != nil {
			c.BPM, _ = strconv.Atoi(m[1])
		}

		cands = append(cands, c)
	}
	return cands, nil
}
