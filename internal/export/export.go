// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes a run's audit streams for downstream tools.
// The pipeline itself owns no file format; everything written here is a
// plain rendering of the audit trail's four streams.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trackmatch/internal/audit"
	"github.com/pdiddy/trackmatch/pkg/types"
)

// Format selects the serialization for exported streams.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// stream names become file basenames under the export directory.
const (
	streamDispositions = "dispositions"
	streamCandidates   = "candidates"
	streamQueries      = "queries"
	streamFlagged      = "flagged"
)

// WriteStreams writes the four audit streams to dir, one file per stream.
func WriteStreams(trail *audit.Trail, dir string, format Format) error {
	if format != FormatYAML && format != FormatJSON {
		return fmt.Errorf("unknown export format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	streams := map[string]any{
		streamDispositions: trail.Dispositions(),
		streamCandidates:   trail.Candidates(),
		streamQueries:      trail.Queries(),
		streamFlagged:      trail.Flagged(),
	}

	for name, data := range streams {
		path := filepath.Join(dir, name+"."+string(format))
		if err := writeFile(path, data, format); err != nil {
			return fmt.Errorf("writing %s stream: %w", name, err)
		}
	}
	return nil
}

func writeFile(path string, data any, format Format) error {
	var raw []byte
	var err error
	switch format {
	case FormatJSON:
		raw, err = json.MarshalIndent(data, "", "  ")
	default:
		raw, err = yaml.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("marshaling: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// FormatSummary writes dispositions as a human-readable table to w.
func FormatSummary(dispositions []types.Disposition, w io.Writer) {
	if len(dispositions) == 0 {
		fmt.Fprintln(w, "No tracks processed.")
		return
	}

	fmt.Fprintf(w, "%-50s  %-20s  %-6s  %s\n", "Track", "Disposition", "Score", "Detail")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	counts := make(map[types.DispositionKind]int)
	for _, d := range dispositions {
		counts[d.Kind]++

		track := d.Track.String()
		if len(track) > 50 {
			track = track[:47] + "..."
		}

		score, detail := "", ""
		switch d.Kind {
		case types.DispositionMatched:
			score = fmt.Sprintf("%.1f", d.Match.Score)
			detail = d.Match.URL
		case types.DispositionFlagged:
			detail = fmt.Sprintf("%d candidate(s) for review", len(d.Review))
		case types.DispositionUnmatched:
			detail = d.Reason
		}
		fmt.Fprintf(w, "%-50s  %-20s  %-6s  %s\n", track, string(d.Kind), score, detail)
	}

	fmt.Fprintf(w, "\n%d tracks: %d matched, %d flagged for review, %d unmatched\n",
		len(dispositions),
		counts[types.DispositionMatched],
		counts[types.DispositionFlagged],
		counts[types.DispositionUnmatched])
}
