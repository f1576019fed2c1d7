package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves every file-system location the application touches.
// Relative configured paths are anchored at the base directory, which is
// the working directory unless overridden.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string
}

// NewPaths resolves application paths from the configuration.
func NewPaths(cfg *Config) (*Paths, error) {
	base := os.Getenv("DEBT_BASE_DIR")
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    resolve(base, cfg.Paths.DataDir),
		ReportsDir: resolve(base, cfg.Paths.ReportsDir),
		LogsDir:    resolve(base, cfg.Paths.LogsDir),
	}, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// CountryDataFile returns the spreadsheet path for one country code,
// following the World Bank extract naming convention.
func (p *Paths) CountryDataFile(code string) string {
	return filepath.Join(p.DataDir, fmt.Sprintf("%s-646 PPG Bilateral Debt.xlsx", code))
}

// EnsureDirs creates the writable directories if missing. The data
// directory is read-only input and deliberately not created here: a
// missing data directory should surface as a load failure, not be
// papered over with an empty one.
func (p *Paths) EnsureDirs() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
