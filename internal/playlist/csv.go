// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package playlist is the input collaborator: it reads a playlist file
// into the source tracks the pipeline resolves. Only the track fields the
// matcher consumes are read; everything else in the export is ignored.
package playlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/trackmatch/internal/textutil"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// headerAliases maps the column spellings playlist exporters use onto the
// canonical field names.
var headerAliases = map[string]string{
	"title":       "title",
	"track":       "title",
	"track_title": "title",
	"name":        "title",

	"artist":  "artists",
	"artists": "artists",

	"remix": "remix",
	"mix":   "remix",

	"year":         "year",
	"release_year": "year",
}

// ReadFile reads the playlist CSV at path.
func ReadFile(path string) ([]types.SourceTrack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening playlist: %w", err)
	}
	defer f.Close()

	tracks, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading playlist %s: %w", path, err)
	}
	return tracks, nil
}

// Read parses CSV rows into source tracks. The first row must be a header
// with at least a title and an artist column. Artists are separated by ";"
// within their cell, primary artist first. A title is split from an
// embedded remix qualifier unless the remix column already names one.
func Read(r io.Reader) ([]types.SourceTrack, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rawHeader, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}

	columns := make(map[int]string)
	for i, h := range rawHeader {
		if canonical, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			columns[i] = canonical
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("playlist has no recognizable columns")
	}

	var tracks []types.SourceTrack
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		var t types.SourceTrack
		for i, v := range record {
			field, ok := columns[i]
			if !ok {
				continue
			}
			val := strings.TrimSpace(v)
			if val == "" {
				continue
			}

			switch field {
			case "title":
				t.Title = val
			case "artists":
				for _, a := range strings.Split(val, ";") {
					if a = strings.TrimSpace(a); a != "" {
						t.Artists = append(t.Artists, a)
					}
				}
			case "remix":
				t.Remix = val
			case "year":
				t.Year, _ = strconv.Atoi(val)
			}
		}

		// Skip totally empty rows; reject half-filled ones.
		if t.Title == "" && len(t.Artists) == 0 {
			continue
		}
		if t.Title == "" || len(t.Artists) == 0 {
			return nil, fmt.Errorf("row %d: both title and artist are required", line)
		}

		if t.Remix == "" {
			if clean, remix := textutil.SplitRemix(t.Title); remix != "" {
				t.Title, t.Remix = clean, remix
			}
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}
