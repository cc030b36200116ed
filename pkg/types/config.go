package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "trackmatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetrievalConfig holds settings for the retrieval strategies and the
// escalation policy between them.
type RetrievalConfig struct {
	HTTPConfig `yaml:",inline"`

	// EnableDirect controls the catalog's own search endpoint.
	EnableDirect bool `json:"enable_direct" yaml:"enable_direct"`

	// EnableEngines controls the third-party search-engine fallback.
	EnableEngines bool `json:"enable_engines" yaml:"enable_engines"`

	// EnableBrowser controls the browser-rendering strategy. The strategy
	// is additionally subject to a runtime capability check: a missing
	// browser binary degrades recall, not correctness.
	EnableBrowser bool `json:"enable_browser" yaml:"enable_browser"`

	// EscalationMinCandidates is the candidate count below which a
	// remix-labeled track escalates to the next strategy (default 5).
	EscalationMinCandidates int `json:"escalation_min_candidates" yaml:"escalation_min_candidates"`

	// DirectRPS and EngineRPS throttle requests per second per strategy.
	DirectRPS float64 `json:"direct_rps" yaml:"direct_rps"`
	EngineRPS float64 `json:"engine_rps" yaml:"engine_rps"`

	// BrowserContexts caps concurrent browser contexts (default 1).
	BrowserContexts int `json:"browser_contexts" yaml:"browser_contexts"`

	// RetryMax is the number of retry attempts after a failed fetch
	// before the rank degrades to an empty result (default 1).
	RetryMax int `json:"retry_max" yaml:"retry_max"`
}

// ScoringConfig holds the composite score weights. Weights are tunable but
// fixed for the duration of a run so decisions stay reproducible.
type ScoringConfig struct {
	// TitleWeight is the title similarity weight (must be >= 0.5).
	TitleWeight float64 `json:"title_weight" yaml:"title_weight"`

	// ArtistWeight is the artist similarity weight.
	ArtistWeight float64 `json:"artist_weight" yaml:"artist_weight"`

	// RemixBonus is the maximum bonus in points when both sides carry a
	// matching remix label.
	RemixBonus float64 `json:"remix_bonus" yaml:"remix_bonus"`

	// RemixPenalty is the penalty in points when exactly one side carries
	// a remix label.
	RemixPenalty float64 `json:"remix_penalty" yaml:"remix_penalty"`
}

// GuardConfig holds the hard veto thresholds applied after scoring.
type GuardConfig struct {
	// TitleSimFloor vetoes candidates whose title similarity component is
	// below this absolute floor, regardless of composite score.
	TitleSimFloor float64 `json:"title_sim_floor" yaml:"title_sim_floor"`

	// TitleTokenCoverage is the minimum fraction of significant source
	// title tokens that must appear, in any order, in the candidate title.
	TitleTokenCoverage float64 `json:"title_token_coverage" yaml:"title_token_coverage"`
}

// DecisionConfig holds the acceptance thresholds for the adjudicator.
type DecisionConfig struct {
	// MinAcceptScore is the composite score a candidate must meet to be
	// accepted (in addition to passing all guards).
	MinAcceptScore float64 `json:"min_accept_score" yaml:"min_accept_score"`

	// ReviewFloor is the lower score floor for retaining non-accepted
	// candidates for manual review.
	ReviewFloor float64 `json:"review_floor" yaml:"review_floor"`

	// HighConfidence is the early-termination cutoff: once a candidate is
	// accepted at or above it, remaining query ranks are skipped.
	HighConfidence float64 `json:"high_confidence" yaml:"high_confidence"`
}

// CacheConfig holds settings for the response cache.
type CacheConfig struct {
	// Path is the SQLite database path. Empty selects the in-memory
	// cache, whose lifetime is one run.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// TTL is how long a cached response stays fresh (default 168h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// RunConfig holds concurrency settings for a resolution run.
type RunConfig struct {
	// Workers bounds the number of tracks adjudicated concurrently.
	Workers int `json:"workers" yaml:"workers"`
}

// Config groups all stage configurations for the pipeline. It is built
// once at startup, validated, and threaded read-only into the adjudicator.
type Config struct {
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Scoring   ScoringConfig   `json:"scoring" yaml:"scoring"`
	Guards    GuardConfig     `json:"guards" yaml:"guards"`
	Decision  DecisionConfig  `json:"decision" yaml:"decision"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Run       RunConfig       `json:"run" yaml:"run"`
}

// DefaultConfig returns the documented defaults. Thresholds are product
// tuning values meant to be validated empirically, not contractual.
func DefaultConfig() Config {
	return Config{
		Retrieval: RetrievalConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "trackmatch/0.1",
			},
			EnableDirect:            true,
			EnableEngines:           true,
			EnableBrowser:           true,
			EscalationMinCandidates: 5,
			DirectRPS:               2,
			EngineRPS:               1,
			BrowserContexts:         1,
			RetryMax:                1,
		},
		Scoring: ScoringConfig{
			TitleWeight:  0.50,
			ArtistWeight: 0.35,
			RemixBonus:   15,
			RemixPenalty: 15,
		},
		Guards: GuardConfig{
			TitleSimFloor:      45,
			TitleTokenCoverage: 0.5,
		},
		Decision: DecisionConfig{
			MinAcceptScore: 70,
			ReviewFloor:    50,
			HighConfidence: 85,
		},
		Cache: CacheConfig{
			TTL: 7 * 24 * time.Hour,
		},
		Run: RunConfig{
			Workers: 4,
		},
	}
}

// Validate rejects configurations the pipeline cannot run under. A
// validation error is fatal at startup, before any track is processed.
func (c Config) Validate() error {
	s := c.Scoring
	if s.TitleWeight < 0.5 {
		return fmt.Errorf("scoring: title_weight %.2f below 0.5; title similarity must dominate the composite", s.TitleWeight)
	}
	if s.ArtistWeight <= 0 {
		return fmt.Errorf("scoring: artist_weight must be positive, got %.2f", s.ArtistWeight)
	}
	if s.TitleWeight+s.ArtistWeight > 1.0+1e-9 {
		return fmt.Errorf("scoring: title_weight + artist_weight = %.2f exceeds 1.0", s.TitleWeight+s.ArtistWeight)
	}
	if s.RemixBonus < 0 || s.RemixBonus > 15 {
		return fmt.Errorf("scoring: remix_bonus %.1f outside [0,15]", s.RemixBonus)
	}
	if s.RemixPenalty < 0 || s.RemixPenalty > 15 {
		return fmt.Errorf("scoring: remix_penalty %.1f outside [0,15]", s.RemixPenalty)
	}

	g := c.Guards
	if g.TitleSimFloor < 0 || g.TitleSimFloor > 100 {
		return fmt.Errorf("guards: title_sim_floor %.1f outside [0,100]", g.TitleSimFloor)
	}
	if g.TitleTokenCoverage <= 0 || g.TitleTokenCoverage > 1 {
		return fmt.Errorf("guards: title_token_coverage %.2f outside (0,1]", g.TitleTokenCoverage)
	}

	d := c.Decision
	if d.MinAcceptScore < 0 || d.MinAcceptScore > 100 {
		return fmt.Errorf("decision: min_accept_score %.1f outside [0,100]", d.MinAcceptScore)
	}
	if d.ReviewFloor < 0 || d.ReviewFloor > d.MinAcceptScore {
		return fmt.Errorf("decision: review_floor %.1f must be in [0, min_accept_score]", d.ReviewFloor)
	}
	if d.HighConfidence < d.MinAcceptScore || d.HighConfidence > 100 {
		return fmt.Errorf("decision: high_confidence %.1f must be in [min_accept_score, 100]", d.HighConfidence)
	}

	r := c.Retrieval
	if !r.EnableDirect && !r.EnableEngines && !r.EnableBrowser {
		return fmt.Errorf("retrieval: all strategies disabled")
	}
	if r.EscalationMinCandidates < 1 {
		return fmt.Errorf("retrieval: escalation_min_candidates must be >= 1, got %d", r.EscalationMinCandidates)
	}
	if r.RetryMax < 0 {
		return fmt.Errorf("retrieval: retry_max must be >= 0, got %d", r.RetryMax)
	}
	if r.BrowserContexts < 1 {
		return fmt.Errorf("retrieval: browser_contexts must be >= 1, got %d", r.BrowserContexts)
	}

	if c.Run.Workers < 1 {
		return fmt.Errorf("run: workers must be >= 1, got %d", c.Run.Workers)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache: ttl must be positive, got %v", c.Cache.TTL)
	}
	return nil
}
