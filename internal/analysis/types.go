package analysis

// Summary holds the headline metrics of a filtered view.
type Summary struct {
	TotalDebt   float64 `json:"total_debt"`
	AverageDebt float64 `json:"average_debt"`

	// AverageGrowth is the mean over rows with a defined growth percent;
	// AverageGrowthValid is false when no row has one.
	AverageGrowth      float64 `json:"average_growth"`
	AverageGrowthValid bool    `json:"average_growth_valid"`

	PeakDebtYear int    `json:"peak_debt_year"`
	TopDebtor    string `json:"top_debtor"`
	Observations int    `json:"observations"`
	Countries    int    `json:"countries"`
	YearSpan     int    `json:"year_span"`
}

// GrowthStats summarizes the defined growth percents of one country.
// Std is the sample standard deviation and zero when fewer than two
// samples exist; Samples counts rows with a defined growth.
type GrowthStats struct {
	Country string  `json:"country"`
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Samples int     `json:"samples"`
}

// Pivot is the year-by-country debt matrix. Cells[i][j] is the debt of
// Countries[j] in Years[i]. Absent (year, country) combinations are
// filled with zero: a zero cell means "no observation", not "zero debt",
// and every consumer rendering the pivot must label it that way.
type Pivot struct {
	Years     []int       `json:"years"`
	Countries []string    `json:"countries"`
	Cells     [][]float64 `json:"cells"`
	ZeroFill  string      `json:"zero_fill"`
}

// Correlation is the pairwise Pearson correlation of the declared numeric
// fields, in field order. Fields are fixed (debt amount, growth percent)
// rather than inferred from the data.
type Correlation struct {
	Fields []string    `json:"fields"`
	Matrix [][]float64 `json:"matrix"`
}
