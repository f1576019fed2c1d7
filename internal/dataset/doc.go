// Package dataset loads the per-country PPG bilateral debt spreadsheets and
// turns them into the canonical observation table.
//
// The pipeline is Loader -> Normalizer -> Preprocessor and runs once per
// data refresh; everything downstream treats the resulting table as
// read-only. Per-country read failures are skipped and reported, a load
// only fails outright when no country could be read at all.
package dataset
