package analysis

import (
	"math"
	"sort"

	apperrors "debtboard/internal/errors"
	"debtboard/pkg/contracts/domain"
)

// TopN is the row count of the top-by-debt and top-by-growth lists.
const TopN = 10

// Summarize computes the headline metrics of a filtered view. An empty
// view is an explicit EmptySelection failure: peak year and top debtor
// have no defined value on zero rows.
func Summarize(view domain.Table) (*Summary, error) {
	if len(view) == 0 {
		return nil, apperrors.NewEmptySelectionError("summary metrics are undefined for an empty view")
	}

	s := &Summary{Observations: len(view)}

	var growthSum float64
	var growthN int
	peak := 0
	for i, obs := range view {
		s.TotalDebt += obs.Debt
		if obs.GrowthValid {
			growthSum += obs.Growth
			growthN++
		}
		if obs.Debt > view[peak].Debt {
			peak = i
		}
	}

	s.AverageDebt = s.TotalDebt / float64(len(view))
	if growthN > 0 {
		s.AverageGrowth = growthSum / float64(growthN)
		s.AverageGrowthValid = true
	}
	s.PeakDebtYear = view[peak].Year

	topDebtor, err := TopDebtor(view)
	if err != nil {
		return nil, err
	}
	s.TopDebtor = topDebtor

	s.Countries = len(view.CountrySet())
	lo, hi, _ := view.YearBounds()
	s.YearSpan = hi - lo + 1

	return s, nil
}

// TopDebtor returns the country whose summed debt over the view is
// maximal. Ties break to the country appearing first in the fixed
// domain.Countries enumeration, never map iteration order.
func TopDebtor(view domain.Table) (string, error) {
	if len(view) == 0 {
		return "", apperrors.NewEmptySelectionError("top debtor is undefined for an empty view")
	}

	totals := make(map[string]float64)
	for _, obs := range view {
		totals[obs.Country] += obs.Debt
	}

	best := ""
	bestRank := len(domain.Countries) + 1
	for name, total := range totals {
		rank := domain.CountryRank(name)
		if best == "" || total > totals[best] || (total == totals[best] && rank < bestRank) {
			best = name
			bestRank = rank
		}
	}
	return best, nil
}

// GrowthStatsByCountry computes mean, sample standard deviation, min and
// max of the defined growth percents per country, in enumeration order.
// Countries without rows in the view are omitted; a country whose rows all
// have undefined growth appears with zero samples.
func GrowthStatsByCountry(view domain.Table) []GrowthStats {
	byCountry := make(map[string][]float64)
	present := make(map[string]bool)
	for _, obs := range view {
		present[obs.Country] = true
		if obs.GrowthValid {
			byCountry[obs.Country] = append(byCountry[obs.Country], obs.Growth)
		}
	}

	var stats []GrowthStats
	for _, country := range domain.Countries {
		if !present[country.Name] {
			continue
		}
		stats = append(stats, growthStats(country.Name, byCountry[country.Name]))
	}
	return stats
}

func growthStats(country string, samples []float64) GrowthStats {
	gs := GrowthStats{Country: country, Samples: len(samples)}
	if len(samples) == 0 {
		return gs
	}

	gs.Min, gs.Max = samples[0], samples[0]
	var sum float64
	for _, v := range samples {
		sum += v
		if v < gs.Min {
			gs.Min = v
		}
		if v > gs.Max {
			gs.Max = v
		}
	}
	gs.Mean = sum / float64(len(samples))

	if len(samples) > 1 {
		var ss float64
		for _, v := range samples {
			d := v - gs.Mean
			ss += d * d
		}
		gs.Std = math.Sqrt(ss / float64(len(samples)-1))
	}
	return gs
}

// BuildPivot builds the year-by-country debt matrix over the view. Years
// ascending, countries in enumeration order, absent cells zero-filled.
func BuildPivot(view domain.Table) *Pivot {
	yearSet := make(map[int]bool)
	present := make(map[string]bool)
	for _, obs := range view {
		yearSet[obs.Year] = true
		present[obs.Country] = true
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	var countries []string
	colOf := make(map[string]int)
	for _, c := range domain.Countries {
		if present[c.Name] {
			colOf[c.Name] = len(countries)
			countries = append(countries, c.Name)
		}
	}

	rowOf := make(map[int]int, len(years))
	for i, y := range years {
		rowOf[y] = i
	}

	cells := make([][]float64, len(years))
	for i := range cells {
		cells[i] = make([]float64, len(countries))
	}
	for _, obs := range view {
		cells[rowOf[obs.Year]][colOf[obs.Country]] += obs.Debt
	}

	return &Pivot{
		Years:     years,
		Countries: countries,
		Cells:     cells,
		ZeroFill:  "zero-filled cells mean no observation, not zero debt",
	}
}

// TopNByDebt returns the min(n, len) rows with the largest debt amount,
// descending, ties resolved by original row order (stable sort).
func TopNByDebt(view domain.Table, n int) domain.Table {
	return topN(view, n, func(obs domain.Observation) (float64, bool) {
		return obs.Debt, true
	})
}

// TopNByGrowth returns the min(n, defined) rows with the largest growth
// percent, descending. Rows with undefined growth never qualify.
func TopNByGrowth(view domain.Table, n int) domain.Table {
	return topN(view, n, func(obs domain.Observation) (float64, bool) {
		return obs.Growth, obs.GrowthValid
	})
}

func topN(view domain.Table, n int, key func(domain.Observation) (float64, bool)) domain.Table {
	eligible := make(domain.Table, 0, len(view))
	for _, obs := range view {
		if _, ok := key(obs); ok {
			eligible = append(eligible, obs)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		vi, _ := key(eligible[i])
		vj, _ := key(eligible[j])
		return vi > vj
	})

	if len(eligible) > n {
		eligible = eligible[:n]
	}
	return eligible
}

// CorrelationFields is the declared list of numeric fields eligible for
// the correlation matrix. Fixed by design instead of inferring numeric
// columns at runtime.
var CorrelationFields = []string{"debt", "growth"}

// Correlate computes the Pearson correlation between debt amount and
// growth percent over the rows where growth is defined. It returns nil
// when fewer than two such rows exist or either field has zero variance,
// in which case the matrix is omitted from the output entirely.
func Correlate(view domain.Table) *Correlation {
	var debt, growth []float64
	for _, obs := range view {
		if obs.GrowthValid {
			debt = append(debt, obs.Debt)
			growth = append(growth, obs.Growth)
		}
	}
	if len(debt) < 2 {
		return nil
	}

	r, ok := pearson(debt, growth)
	if !ok {
		return nil
	}

	return &Correlation{
		Fields: CorrelationFields,
		Matrix: [][]float64{{1, r}, {r, 1}},
	}
}

func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= n
	my /= n

	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0, false
	}
	return cov / math.Sqrt(vx*vy), true
}
