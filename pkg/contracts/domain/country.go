package domain

// Country identifies one of the six South Asian countries covered by the
// bilateral PPG debt extracts. Name is the display label, Code the
// three-letter World Bank country code used to locate the source file.
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Countries is the fixed, ordered set of covered countries. The order is
// significant: it is the concatenation order during loading and the
// tie-break order for metrics such as the top debtor.
var Countries = []Country{
	{Name: "Bangladesh", Code: "BGD"},
	{Name: "Bhutan", Code: "BTN"},
	{Name: "Sri Lanka", Code: "LKA"},
	{Name: "Maldives", Code: "MDV"},
	{Name: "Myanmar", Code: "MMR"},
	{Name: "Nepal", Code: "NPL"},
}

// CountryByName returns the country with the given display name.
func CountryByName(name string) (Country, bool) {
	for _, c := range Countries {
		if c.Name == name {
			return c, true
		}
	}
	return Country{}, false
}

// CountryByCode returns the country with the given three-letter code.
func CountryByCode(code string) (Country, bool) {
	for _, c := range Countries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// CountryNames returns the display names in enumeration order.
func CountryNames() []string {
	names := make([]string, len(Countries))
	for i, c := range Countries {
		names[i] = c.Name
	}
	return names
}

// CountryRank returns the enumeration position of the named country, or
// len(Countries) when the name is unknown. Used for stable tie-breaking.
func CountryRank(name string) int {
	for i, c := range Countries {
		if c.Name == name {
			return i
		}
	}
	return len(Countries)
}
