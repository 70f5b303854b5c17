// Package batch implements multi-symbol sentiment processing. It walks
// only the primary scrape source per symbol (throughput over the full
// fallback chain), scores each item, and emits a tabular result with a
// trailing rolling-mean column per symbol.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/marketmood/internal/datasource"
	"github.com/seenimoa/marketmood/internal/lexicon"
	"github.com/seenimoa/marketmood/pkg/models"
	"github.com/seenimoa/marketmood/pkg/utils"
)

const (
	// DefaultQuota is the per-symbol article quota in batch mode.
	DefaultQuota = 10
	// rollingWindow is the trailing rolling-mean window (min period 1).
	rollingWindow = 5
	// defaultConcurrency bounds the symbol fan-out.
	defaultConcurrency = 4
)

// Processor runs sentiment scoring across many symbols.
//
// Symbols are independent, so they fan out concurrently (bounded by an
// errgroup limit) while each symbol still queries one source with one
// quota, so the per-call provider cost profile is unchanged. Results are
// reassembled in input order.
type Processor struct {
	primary     datasource.Adapter
	scorer      lexicon.Scorer
	quota       int
	concurrency int
	log         zerolog.Logger
}

// Option customizes a Processor.
type Option func(*Processor)

// WithQuota sets the per-symbol article quota.
func WithQuota(quota int) Option {
	return func(p *Processor) {
		if quota > 0 {
			p.quota = quota
		}
	}
}

// WithConcurrency bounds the number of symbols processed in parallel.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithScorer replaces the lexicon scorer.
func WithScorer(s lexicon.Scorer) Option {
	return func(p *Processor) { p.scorer = s }
}

// New creates a batch processor reading from the given primary source.
func New(primary datasource.Adapter, opts ...Option) *Processor {
	p := &Processor{
		primary:     primary,
		scorer:      lexicon.New(),
		quota:       DefaultQuota,
		concurrency: defaultConcurrency,
		log:         log.With().Str("component", "batch").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process scores every symbol and returns the combined result table.
// Symbols yielding no items contribute no rows; a symbol whose
// processing fails is logged and skipped, never aborting the batch.
func (p *Processor) Process(ctx context.Context, symbols []string) []models.BatchRow {
	perSymbol := make([][]models.BatchRow, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, symbol := range symbols {
		i, symbol := i, symbol // per-iteration copies; go directive predates Go 1.22 loop semantics
		g.Go(func() error {
			rows, err := p.processSymbol(gctx, symbol)
			if err != nil {
				p.log.Warn().Err(err).Str("symbol", symbol).Msg("symbol skipped")
				return nil // non-fatal
			}
			perSymbol[i] = rows
			return nil
		})
	}
	// Workers only return nil; Wait is for completion, not errors.
	_ = g.Wait()

	var table []models.BatchRow
	for _, rows := range perSymbol {
		table = append(table, rows...)
	}
	return table
}

// processSymbol fetches and scores one symbol's items. A panicking
// adapter is contained here so the rest of the batch keeps going.
func (p *Processor) processSymbol(ctx context.Context, symbol string) (rows []models.BatchRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("source panic: %v", r)
		}
	}()

	symbol = utils.NormalizeSymbol(symbol)
	items := p.primary.Fetch(ctx, symbol, p.quota)
	if len(items) == 0 {
		return nil, nil
	}

	now := time.Now()
	compounds := make([]float64, 0, len(items))
	for _, item := range items {
		compound := 0.0
		if item.HasScore {
			compound = item.Precomputed
		} else if breakdown, scoreErr := p.scorer.Score(item.Body()); scoreErr == nil {
			compound = breakdown.Compound
		}
		compounds = append(compounds, compound)

		rows = append(rows, models.BatchRow{
			Symbol:      symbol,
			Title:       item.Title,
			Text:        item.Body(),
			Compound:    compound,
			ProcessedAt: now,
		})
	}

	means := rollingMean(compounds, rollingWindow)
	for i := range rows {
		rows[i].RollingMean = means[i]
	}
	return rows, nil
}

// rollingMean computes a trailing mean over the last window values,
// with a minimum period of one.
func rollingMean(values []float64, window int) []float64 {
	means := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		means[i] = sum / float64(n)
	}
	return means
}
