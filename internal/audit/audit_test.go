// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pdiddy/trackmatch/pkg/types"
)

func TestTrailAppendsInOrder(t *testing.T) {
	trail := New()
	for i := 0; i < 3; i++ {
		trail.RecordQuery(QueryRecord{Track: fmt.Sprintf("track-%d", i)})
	}

	got := trail.Queries()
	if len(got) != 3 {
		t.Fatalf("Queries() returned %d records, want 3", len(got))
	}
	for i, r := range got {
		if want := fmt.Sprintf("track-%d", i); r.Track != want {
			t.Errorf("record %d track = %q, want %q", i, r.Track, want)
		}
	}
}

func TestTrailSnapshotsAreCopies(t *testing.T) {
	trail := New()
	trail.RecordCandidate(CandidateRecord{Track: "a"})

	snap := trail.Candidates()
	snap[0].Track = "mutated"

	if got := trail.Candidates()[0].Track; got != "a" {
		t.Errorf("trail record mutated through snapshot: track = %q", got)
	}
}

func TestFlaggedFiltersDispositions(t *testing.T) {
	trail := New()
	trail.RecordDisposition(types.Disposition{Kind: types.DispositionMatched})
	trail.RecordDisposition(types.Disposition{
		Kind:    types.DispositionFlagged,
		Reasons: []string{"score 62.0 below acceptance threshold 70.0"},
	})
	trail.RecordDisposition(types.Disposition{Kind: types.DispositionUnmatched, Reason: "no results"})

	flagged := trail.Flagged()
	if len(flagged) != 1 {
		t.Fatalf("Flagged() returned %d dispositions, want 1", len(flagged))
	}
	if flagged[0].Kind != types.DispositionFlagged {
		t.Errorf("Kind = %q, want flagged", flagged[0].Kind)
	}
	if len(trail.Dispositions()) != 3 {
		t.Errorf("Dispositions() = %d records, want all 3", len(trail.Dispositions()))
	}
}

func TestTrailConcurrentAppends(t *testing.T) {
	trail := New()
	const workers, perWorker = 8, 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				trail.RecordQuery(QueryRecord{Track: fmt.Sprintf("w%d-%d", w, i)})
				trail.RecordCandidate(CandidateRecord{Track: fmt.Sprintf("w%d-%d", w, i)})
			}
			trail.RecordDisposition(types.Disposition{Kind: types.DispositionUnmatched})
		}(w)
	}
	wg.Wait()

	if n := len(trail.Queries()); n != workers*perWorker {
		t.Errorf("Queries() = %d records, want %d", n, workers*perWorker)
	}
	if n := len(trail.Candidates()); n != workers*perWorker {
		t.Errorf("Candidates() = %d records, want %d", n, workers*perWorker)
	}
	if n := len(trail.Dispositions()); n != workers {
		t.Errorf("Dispositions() = %d records, want %d", n, workers)
	}
}
