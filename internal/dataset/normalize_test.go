package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"debtboard/pkg/contracts/domain"
)

func TestNormalizeHeaders(t *testing.T) {
	tests := []struct {
		name        string
		headers     []string
		rows        [][]string
		wantHeaders []string
		wantRows    [][]string
	}{
		{
			name:        "trims whitespace preserving case",
			headers:     []string{"  Year ", "Data\t"},
			rows:        [][]string{{"2018", "100"}},
			wantHeaders: []string{"Year", "Data"},
			wantRows:    [][]string{{"2018", "100"}},
		},
		{
			name:        "drops unnamed placeholder columns with their cells",
			headers:     []string{"year", "Unnamed: 2", "data"},
			rows:        [][]string{{"2018", "junk", "100"}, {"2019", "junk", "150"}},
			wantHeaders: []string{"year", "data"},
			wantRows:    [][]string{{"2018", "100"}, {"2019", "150"}},
		},
		{
			name:        "drops empty-named columns",
			headers:     []string{"year", "   ", "data"},
			rows:        [][]string{{"2018", "junk", "100"}},
			wantHeaders: []string{"year", "data"},
			wantRows:    [][]string{{"2018", "100"}},
		},
		{
			name:        "no-op on already clean input",
			headers:     []string{"year", "data"},
			rows:        [][]string{{"2018", "100"}},
			wantHeaders: []string{"year", "data"},
			wantRows:    [][]string{{"2018", "100"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := RawTable{
				Country: domain.Countries[0],
				Headers: tt.headers,
				Rows:    tt.rows,
			}
			NormalizeHeaders(&table)
			assert.Equal(t, tt.wantHeaders, table.Headers)
			assert.Equal(t, tt.wantRows, table.Rows)
		})
	}
}
