// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guard

import (
	"testing"

	"github.com/pdiddy/trackmatch/pkg/types"
)

func testChain() *Chain {
	return New(types.DefaultConfig().Guards)
}

func scored(c types.Candidate, titleSim float64) types.ScoredCandidate {
	return types.ScoredCandidate{
		Candidate: c,
		Score:     90,
		Breakdown: types.ScoreBreakdown{Title: titleSim, Artist: 90},
	}
}

func TestCheckPassesCleanMatch(t *testing.T) {
	track := types.SourceTrack{Title: "Never Sleep Again", Artists: []string{"Example Artist"}}
	sc := scored(types.Candidate{Title: "never sleep again"}, 100)

	ok, name, reason := testChain().Check(track, sc)
	if !ok {
		t.Fatalf("Check() vetoed clean match: %s: %s", name, reason)
	}
}

func TestTitleSimFloorVetoes(t *testing.T) {
	track := types.SourceTrack{Title: "Never Sleep Again"}
	sc := scored(types.Candidate{Title: "never sleep again"}, 30)

	ok, name, _ := testChain().Check(track, sc)
	if ok {
		t.Fatal("Check() passed candidate below title similarity floor")
	}
	if name != "title_sim_floor" {
		t.Errorf("veto guard = %q, want title_sim_floor", name)
	}
}

func TestTitleSimFloorVetoesDespiteHighScore(t *testing.T) {
	// A veto is absolute: even a perfect composite does not override it.
	track := types.SourceTrack{Title: "Never Sleep Again"}
	sc := scored(types.Candidate{Title: "never sleep again"}, 30)
	sc.Score = 100

	if ok, _, _ := testChain().Check(track, sc); ok {
		t.Fatal("Check() let a high composite override the floor veto")
	}
}

func TestTokenCoverageVetoes(t *testing.T) {
	track := types.SourceTrack{Title: "Never Sleep Again Tonight"}
	// Shares only one of the source's significant tokens.
	sc := scored(types.Candidate{Title: "sleep now"}, 60)

	ok, name, _ := testChain().Check(track, sc)
	if ok {
		t.Fatal("Check() passed candidate with insufficient token coverage")
	}
	if name != "title_token_coverage" {
		t.Errorf("veto guard = %q, want title_token_coverage", name)
	}
}

func TestTokenCoverageIgnoresOrder(t *testing.T) {
	track := types.SourceTrack{Title: "Sleep Never Again"}
	sc := scored(types.Candidate{Title: "again never sleep"}, 80)

	if ok, name, reason := testChain().Check(track, sc); !ok {
		t.Fatalf("Check() vetoed reordered tokens: %s: %s", name, reason)
	}
}

func TestRemixConflictVetoes(t *testing.T) {
	track := types.SourceTrack{
		Title:   "Never Sleep Again",
		Artists: []string{"Example Artist"},
		Remix:   "Keinemusik Remix",
	}
	decoy := scored(types.Candidate{
		Title: "never sleep again",
		Remix: "club edit",
	}, 100)

	ok, name, reason := testChain().Check(track, decoy)
	if ok {
		t.Fatal("Check() passed a different remix of the same song")
	}
	if name != "remix_identity_conflict" {
		t.Errorf("veto guard = %q, want remix_identity_conflict", name)
	}
	if reason == "" {
		t.Error("veto reason is empty")
	}
}

func TestRemixConflictToleratesSpellingDrift(t *testing.T) {
	track := types.SourceTrack{Title: "Never Sleep Again", Remix: "Keinemusik Remix"}
	drift := scored(types.Candidate{
		Title: "never sleep again",
		Remix: "keinemusik rmx",
	}, 100)

	if ok, name, reason := testChain().Check(track, drift); !ok {
		t.Fatalf("Check() vetoed near-identical labels: %s: %s", name, reason)
	}
}

func TestRemixConflictSkippedWhenEitherSideUnlabeled(t *testing.T) {
	chain := testChain()

	remixTrack := types.SourceTrack{Title: "Never Sleep Again", Remix: "Keinemusik Remix"}
	unlabeled := scored(types.Candidate{Title: "never sleep again"}, 100)
	if ok, name, _ := chain.Check(remixTrack, unlabeled); !ok {
		t.Errorf("unlabeled candidate vetoed by %s; missing labels degrade the score, not the guards", name)
	}

	plainTrack := types.SourceTrack{Title: "Never Sleep Again"}
	labeled := scored(types.Candidate{Title: "never sleep again", Remix: "club edit"}, 100)
	if ok, name, _ := chain.Check(plainTrack, labeled); !ok {
		t.Errorf("labeled candidate against remix-less source vetoed by %s", name)
	}
}

func TestFirstVetoWins(t *testing.T) {
	// Fails both the similarity floor and the remix identity check; the
	// reported guard must be the earlier one in the chain.
	track := types.SourceTrack{Title: "Never Sleep Again", Remix: "Keinemusik Remix"}
	sc := scored(types.Candidate{Title: "never sleep again", Remix: "club edit"}, 10)

	_, name, _ := testChain().Check(track, sc)
	if name != "title_sim_floor" {
		t.Errorf("veto guard = %q, want title_sim_floor (first in chain)", name)
	}
}

func TestTokenCoverageEmptySourcePasses(t *testing.T) {
	if got := tokenCoverage("", "anything"); got != 1 {
		t.Errorf("tokenCoverage with empty source = %.2f, want 1", got)
	}
}
