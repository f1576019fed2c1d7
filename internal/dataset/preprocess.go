package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"debtboard/pkg/contracts/domain"
)

// Calendar years outside this window are treated as coercion failures.
const (
	minYear = 1900
	maxYear = 2100
)

// Preprocess turns normalized raw tables into the canonical observation
// table. The order of operations is fixed:
//
//  1. coerce the year and debt cells; cells that fail to parse become
//     missing (a malformed cell costs one row, never the whole load)
//  2. drop every row with any missing cell (no imputation; sparse years
//     are silently lost, an accepted tradeoff)
//  3. sort by (country enumeration order, year) ascending
//  4. compute year-over-year growth per country partition
//
// The tables must share the loader's enumeration order; re-running over
// unchanged input yields an identical result.
func Preprocess(tables []RawTable) (domain.Table, error) {
	var out domain.Table

	for _, t := range tables {
		cols, err := resolveColumns(t.Headers)
		if err != nil {
			return nil, fmt.Errorf("country %s: %w", t.Country.Code, err)
		}

		for _, row := range t.Rows {
			if hasMissingCell(row) {
				continue
			}
			year, ok := parseYear(row[cols.year])
			if !ok {
				continue
			}
			debt, ok := parseAmount(row[cols.debt])
			if !ok {
				continue
			}
			out = append(out, domain.Observation{
				Country:     t.Country.Name,
				CountryCode: t.Country.Code,
				Year:        year,
				Debt:        debt,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := domain.CountryRank(out[i].Country), domain.CountryRank(out[j].Country)
		if ri != rj {
			return ri < rj
		}
		return out[i].Year < out[j].Year
	})

	computeGrowth(out)
	return out, nil
}

// columns are the resolved positions of the two required fields.
type columns struct {
	year int
	debt int
}

// resolveColumns locates the year and debt-amount columns. Header names
// are matched case-insensitively after trimming; the World Bank extracts
// use "year" and "data" but common synonyms are accepted.
func resolveColumns(headers []string) (columns, error) {
	cols := columns{year: -1, debt: -1}

	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.year < 0 && name == "year":
			cols.year = i
		case cols.debt < 0 && (name == "data" || name == "debt" || name == "amount" || name == "value" || strings.Contains(name, "debt")):
			cols.debt = i
		}
	}

	if cols.year < 0 {
		return cols, fmt.Errorf("no year column among headers %v", headers)
	}
	if cols.debt < 0 {
		return cols, fmt.Errorf("no debt amount column among headers %v", headers)
	}
	return cols, nil
}

func hasMissingCell(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			return true
		}
	}
	return false
}

// parseYear coerces a cell to an integer calendar year. Accepts plain
// integers and float-formatted exports like "2018.0".
func parseYear(cell string) (int, bool) {
	s := strings.TrimSpace(cell)
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		frac := s[dot+1:]
		if strings.Trim(frac, "0") != "" {
			return 0, false
		}
		s = s[:dot]
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < minYear || year > maxYear {
		return 0, false
	}
	return year, true
}

// parseAmount coerces a cell to a numeric debt amount, tolerating
// thousands separators and a currency prefix.
func parseAmount(cell string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	s = strings.TrimPrefix(s, "$")
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// computeGrowth fills the derived year-over-year growth percent with an
// ordered scan per country partition. The table must already be sorted by
// (country, year). The first row of each partition stays undefined, as
// does any row whose previous value is exactly zero.
func computeGrowth(table domain.Table) {
	for i := range table {
		if i == 0 || table[i].Country != table[i-1].Country {
			continue
		}
		prev := table[i-1].Debt
		if prev == 0 {
			continue
		}
		table[i].Growth = (table[i].Debt - prev) / prev * 100
		table[i].GrowthValid = true
	}
}
