// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "title weight below half",
			mutate:  func(c *Config) { c.Scoring.TitleWeight = 0.4 },
			wantErr: "title_weight",
		},
		{
			name:    "artist weight zero",
			mutate:  func(c *Config) { c.Scoring.ArtistWeight = 0 },
			wantErr: "artist_weight",
		},
		{
			name: "weights exceed one",
			mutate: func(c *Config) {
				c.Scoring.TitleWeight = 0.7
				c.Scoring.ArtistWeight = 0.5
			},
			wantErr: "exceeds 1.0",
		},
		{
			name:    "remix bonus too large",
			mutate:  func(c *Config) { c.Scoring.RemixBonus = 20 },
			wantErr: "remix_bonus",
		},
		{
			name:    "remix penalty negative",
			mutate:  func(c *Config) { c.Scoring.RemixPenalty = -1 },
			wantErr: "remix_penalty",
		},
		{
			name:    "title sim floor out of range",
			mutate:  func(c *Config) { c.Guards.TitleSimFloor = 120 },
			wantErr: "title_sim_floor",
		},
		{
			name:    "token coverage zero",
			mutate:  func(c *Config) { c.Guards.TitleTokenCoverage = 0 },
			wantErr: "title_token_coverage",
		},
		{
			name:    "review floor above acceptance",
			mutate:  func(c *Config) { c.Decision.ReviewFloor = 80 },
			wantErr: "review_floor",
		},
		{
			name:    "high confidence below acceptance",
			mutate:  func(c *Config) { c.Decision.HighConfidence = 60 },
			wantErr: "high_confidence",
		},
		{
			name: "all strategies disabled",
			mutate: func(c *Config) {
				c.Retrieval.EnableDirect = false
				c.Retrieval.EnableEngines = false
				c.Retrieval.EnableBrowser = false
			},
			wantErr: "all strategies disabled",
		},
		{
			name:    "escalation threshold zero",
			mutate:  func(c *Config) { c.Retrieval.EscalationMinCandidates = 0 },
			wantErr: "escalation_min_candidates",
		},
		{
			name:    "negative retry max",
			mutate:  func(c *Config) { c.Retrieval.RetryMax = -1 },
			wantErr: "retry_max",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Run.Workers = 0 },
			wantErr: "workers",
		},
		{
			name:    "zero cache ttl",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: "ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() accepted an invalid config")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSourceTrackHelpers(t *testing.T) {
	track := SourceTrack{
		Title:   "Never Sleep Again",
		Artists: []string{"Example Artist", "Other Person"},
		Remix:   "Keinemusik Remix",
	}

	if got := track.PrimaryArtist(); got != "Example Artist" {
		t.Errorf("PrimaryArtist() = %q", got)
	}
	if !track.HasRemix() {
		t.Error("HasRemix() = false for a labeled track")
	}

	plain := SourceTrack{Title: "Cola"}
	if plain.HasRemix() {
		t.Error("HasRemix() = true for an unlabeled track")
	}
	if got := plain.PrimaryArtist(); got != "" {
		t.Errorf("PrimaryArtist() with no artists = %q", got)
	}
}
