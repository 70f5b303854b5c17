package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seenimoa/marketmood/internal/infra"
	"github.com/seenimoa/marketmood/internal/lexicon"
	"github.com/seenimoa/marketmood/pkg/models"
)

// RetryPolicy describes the retry behavior applied around scorer calls:
// up to MaxAttempts attempts, sleeping BaseDelay after the first failure
// and doubling up to MaxDelay between subsequent attempts.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy matches the production configuration: 3 attempts
// with exponential backoff starting at 4s, capped at 10s.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	BaseDelay:   4 * time.Second,
	MaxDelay:    10 * time.Second,
}

// robustCachePurpose tags robust-scoring cache fingerprints.
const robustCachePurpose = "robust_score"

// RobustScorer wraps a lexicon scorer with fingerprint caching, retries
// with exponential backoff, and a neutral fallback. Score never returns
// an error: scorer exhaustion yields the neutral breakdown, and every
// outcome (success or fallback) is cached.
type RobustScorer struct {
	scorer lexicon.Scorer
	cache  *infra.Cache
	policy RetryPolicy
	log    zerolog.Logger
}

// NewRobustScorer creates a retry-hardened scorer. A nil cache disables
// memoization.
func NewRobustScorer(scorer lexicon.Scorer, cache *infra.Cache, policy RetryPolicy) *RobustScorer {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RobustScorer{
		scorer: scorer,
		cache:  cache,
		policy: policy,
		log:    log.With().Str("component", "robust_scorer").Logger(),
	}
}

// Score returns the sentiment breakdown for a text, retrying transient
// scorer failures and falling back to neutral on exhaustion.
func (r *RobustScorer) Score(ctx context.Context, text string) models.ScoreBreakdown {
	key := infra.Fingerprint("lexicon", robustCachePurpose, text)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			if breakdown, ok := cached.(models.ScoreBreakdown); ok {
				return breakdown
			}
		}
	}

	breakdown := r.score(ctx, text)
	if r.cache != nil {
		r.cache.Set(key, breakdown)
	}
	return breakdown
}

func (r *RobustScorer) score(ctx context.Context, text string) models.ScoreBreakdown {
	delay := r.policy.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		breakdown, err := r.scorer.Score(text)
		if err == nil {
			return breakdown
		}
		lastErr = err

		// Empty input is deterministic; retrying cannot help.
		if errors.Is(err, lexicon.ErrEmptyText) {
			break
		}
		if attempt == r.policy.MaxAttempts {
			break
		}

		r.log.Warn().Err(err).Int("attempt", attempt).Msg("scorer failed, retrying")
		select {
		case <-ctx.Done():
			return models.NeutralBreakdown()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > r.policy.MaxDelay {
			delay = r.policy.MaxDelay
		}
	}

	r.log.Error().Err(lastErr).Msg("scorer exhausted, using neutral fallback")
	return models.NeutralBreakdown()
}
