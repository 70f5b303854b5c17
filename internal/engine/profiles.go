package engine

import (
	"errors"

	"github.com/seenimoa/marketmood/pkg/models"
)

// UseCase names a business scenario with a preset quota and source set.
type UseCase string

const (
	// UseCaseHFT favors the fastest source with aggressive caching.
	UseCaseHFT UseCase = "hft"
	// UseCaseRetail is cost-effective; delayed social data is acceptable.
	UseCaseRetail UseCase = "retail"
	// UseCaseQuant favors premium pre-scored feeds for accuracy.
	UseCaseQuant UseCase = "quant"
	// UseCaseAcademic favors broad, reproducible coverage.
	UseCaseAcademic UseCase = "academic"
	// UseCaseFintech favors real-time social streams.
	UseCaseFintech UseCase = "fintech"
)

// SourceProfile binds an article quota to an enabled source subset.
type SourceProfile struct {
	Quota   int
	Sources []models.SourceID
}

// profiles is the read-only use-case table, populated at process start.
var profiles = map[UseCase]SourceProfile{
	UseCaseHFT: {
		Quota:   10,
		Sources: []models.SourceID{models.SourceFinviz},
	},
	UseCaseRetail: {
		Quota:   5,
		Sources: []models.SourceID{models.SourceTradestie, models.SourceFinviz},
	},
	UseCaseQuant: {
		Quota:   20,
		Sources: []models.SourceID{models.SourceAlphaVantage, models.SourceFinviz},
	},
	UseCaseAcademic: {
		Quota:   50,
		Sources: []models.SourceID{models.SourceGoogleNews, models.SourceFinviz},
	},
	UseCaseFintech: {
		Quota:   15,
		Sources: []models.SourceID{models.SourceStockGeist, models.SourceFinviz},
	},
}

// ApplyProfile looks up the preset for a use case. Pure lookup: the
// second return is false for an unknown or empty use case, in which
// case caller-supplied quota and sources remain in effect.
func ApplyProfile(uc UseCase) (SourceProfile, bool) {
	profile, ok := profiles[uc]
	if !ok {
		return SourceProfile{}, false
	}
	// Copy so callers cannot mutate the table.
	sources := make([]models.SourceID, len(profile.Sources))
	copy(sources, profile.Sources)
	return SourceProfile{Quota: profile.Quota, Sources: sources}, true
}

// ParseUseCase resolves a string to a known use case.
func ParseUseCase(s string) (UseCase, error) {
	uc := UseCase(s)
	if _, ok := profiles[uc]; !ok {
		return "", errors.New("unknown use case: " + s)
	}
	return uc, nil
}
