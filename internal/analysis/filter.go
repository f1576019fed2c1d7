package analysis

import (
	apperrors "debtboard/internal/errors"
	"debtboard/pkg/contracts/domain"
)

// Filter returns the subsequence of the table whose country is in the
// selection and whose year falls in the inclusive range [lo, hi], order
// preserved. An empty selection yields an empty view; rejecting empty
// selections before metrics run is the orchestrator's job, because an
// empty view makes several metrics undefined.
func Filter(table domain.Table, countries []string, lo, hi int) (domain.Table, error) {
	if lo > hi {
		return nil, apperrors.NewInvalidRangeError(lo, hi)
	}

	selected := make(map[string]bool, len(countries))
	for _, name := range countries {
		selected[name] = true
	}

	view := make(domain.Table, 0, len(table))
	for _, obs := range table {
		if selected[obs.Country] && obs.Year >= lo && obs.Year <= hi {
			view = append(view, obs)
		}
	}
	return view, nil
}
