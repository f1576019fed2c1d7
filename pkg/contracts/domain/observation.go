package domain

// Observation is one row of the canonical table: a single country's debt
// stock for one calendar year, plus the derived year-over-year growth.
// Growth is never entered independently: it is computed per country
// partition after sorting, and GrowthValid is false for the first year of
// each partition and for years whose previous value was exactly zero.
type Observation struct {
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Year        int     `json:"year"`
	Debt        float64 `json:"debt" validate:"min=0"`
	Growth      float64 `json:"growth,omitempty"`
	GrowthValid bool    `json:"growth_valid"`
}

// Table is an ordered set of observations. The canonical table and every
// filtered view share this type; a filtered view is just a subsequence.
type Table []Observation

// YearBounds returns the minimum and maximum year present in the table.
// ok is false for an empty table.
func (t Table) YearBounds() (lo, hi int, ok bool) {
	if len(t) == 0 {
		return 0, 0, false
	}
	lo, hi = t[0].Year, t[0].Year
	for _, obs := range t[1:] {
		if obs.Year < lo {
			lo = obs.Year
		}
		if obs.Year > hi {
			hi = obs.Year
		}
	}
	return lo, hi, true
}

// CountrySet returns the distinct country names in first-occurrence order.
func (t Table) CountrySet() []string {
	seen := make(map[string]bool, len(Countries))
	var names []string
	for _, obs := range t {
		if !seen[obs.Country] {
			seen[obs.Country] = true
			names = append(names, obs.Country)
		}
	}
	return names
}
