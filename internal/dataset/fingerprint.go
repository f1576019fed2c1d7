package dataset

import (
	"crypto/sha256"
	"fmt"
	"os"

	"debtboard/pkg/contracts/domain"
)

// Fingerprint returns a hash identifying the current version of the source
// files: name, size and mtime of every country's spreadsheet, missing
// files included as such. The canonical-table cache is keyed by this value
// so a reload only rebuilds when a source actually changed.
func Fingerprint(locator FileLocator) string {
	h := sha256.New()
	for _, country := range domain.Countries {
		path := locator.CountryDataFile(country.Code)
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(h, "%s|absent\n", country.Code)
			continue
		}
		fmt.Fprintf(h, "%s|%d|%d\n", country.Code, info.Size(), info.ModTime().UnixNano())
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
