// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"reflect"
	"testing"

	"github.com/pdiddy/trackmatch/pkg/types"
)

func testScorer() *Scorer {
	return New(types.DefaultConfig().Scoring)
}

func TestScoreIsDeterministic(t *testing.T) {
	track := types.SourceTrack{
		Title:   "Never Sleep Again",
		Artists: []string{"Example Artist"},
		Remix:   "Keinemusik Remix",
	}
	cand := types.Candidate{
		Title:   "never sleep again",
		Artists: []string{"example artist"},
		Remix:   "keinemusik remix",
	}

	s := testScorer()
	first := s.Score(track, cand)
	for i := 0; i < 10; i++ {
		if got := s.Score(track, cand); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: score differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestScoreExactMatch(t *testing.T) {
	track := types.SourceTrack{Title: "Cola", Artists: []string{"CamelPhat", "Elderbrook"}}
	cand := types.Candidate{Title: "cola", Artists: []string{"camelphat", "elderbrook"}}

	sc := testScorer().Score(track, cand)
	if sc.Breakdown.Title != 100 {
		t.Errorf("title similarity = %.1f, want 100", sc.Breakdown.Title)
	}
	if sc.Breakdown.Artist != 100 {
		t.Errorf("artist similarity = %.1f, want 100", sc.Breakdown.Artist)
	}
	if sc.Breakdown.RemixAdjust != 0 {
		t.Errorf("remix adjustment = %.1f, want 0 when neither side has a label", sc.Breakdown.RemixAdjust)
	}
	// 0.5*100 + 0.35*100 = 85 with default weights.
	if sc.Score < 84.9 || sc.Score > 85.1 {
		t.Errorf("composite = %.1f, want 85", sc.Score)
	}
}

func TestScoreArtistReorderingTolerated(t *testing.T) {
	track := types.SourceTrack{Title: "Cola", Artists: []string{"CamelPhat", "Elderbrook"}}
	reordered := types.Candidate{Title: "cola", Artists: []string{"elderbrook", "camelphat"}}

	sc := testScorer().Score(track, reordered)
	if sc.Breakdown.Artist != 100 {
		t.Errorf("artist similarity with reordered list = %.1f, want 100", sc.Breakdown.Artist)
	}
}

func TestScorePartialArtistOverlap(t *testing.T) {
	track := types.SourceTrack{Title: "Cola", Artists: []string{"CamelPhat", "Elderbrook"}}
	partial := types.Candidate{Title: "cola", Artists: []string{"camelphat"}}

	sc := testScorer().Score(track, partial)
	if sc.Breakdown.Artist >= 100 || sc.Breakdown.Artist <= 0 {
		t.Errorf("partial overlap similarity = %.1f, want strictly between 0 and 100", sc.Breakdown.Artist)
	}
}

func TestScoreRemixBonus(t *testing.T) {
	track := types.SourceTrack{
		Title:   "Never Sleep Again",
		Artists: []string{"Example Artist"},
		Remix:   "Keinemusik Remix",
	}
	matching := types.Candidate{
		Title:   "never sleep again",
		Artists: []string{"example artist"},
		Remix:   "keinemusik remix",
	}

	sc := testScorer().Score(track, matching)
	if sc.Breakdown.RemixAdjust < 14.9 {
		t.Errorf("remix bonus = %.1f, want full bonus for identical labels", sc.Breakdown.RemixAdjust)
	}
}

func TestScoreRemixPenaltyWhenCandidateLacksLabel(t *testing.T) {
	track := types.SourceTrack{
		Title:   "Never Sleep Again",
		Artists: []string{"Example Artist"},
		Remix:   "Keinemusik Remix",
	}
	unlabeled := types.Candidate{
		Title:   "never sleep again",
		Artists: []string{"example artist"},
	}

	sc := testScorer().Score(track, unlabeled)
	if sc.Breakdown.RemixAdjust != -15 {
		t.Errorf("remix adjustment = %.1f, want -15 penalty", sc.Breakdown.RemixAdjust)
	}
	// 85 - 15 = 70 boundary: a title-only match on a remix track must
	// not clear the default threshold comfortably.
	if sc.Score > 70.1 {
		t.Errorf("composite = %.1f, want at most the acceptance boundary", sc.Score)
	}
}

func TestScoreTitleCleaningStripsQualifiers(t *testing.T) {
	track := types.SourceTrack{Title: "Cola", Artists: []string{"CamelPhat"}}
	cand := types.Candidate{Title: "cola (extended mix)", Artists: []string{"camelphat"}}

	sc := testScorer().Score(track, cand)
	if sc.Breakdown.Title != 100 {
		t.Errorf("title similarity = %.1f, want 100 after qualifier stripping", sc.Breakdown.Title)
	}
}

func TestScoreClampedToRange(t *testing.T) {
	track := types.SourceTrack{Title: "x", Artists: []string{"y"}, Remix: "Some Remix"}
	junk := types.Candidate{Title: "completely unrelated title", Artists: []string{"nobody"}}

	sc := testScorer().Score(track, junk)
	if sc.Score < 0 || sc.Score > 100 {
		t.Errorf("composite = %.1f, want within [0,100]", sc.Score)
	}
}
