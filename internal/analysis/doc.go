// Package analysis derives everything the dashboard shows from the
// canonical observation table: the filtered view and the summary metrics
// over it. All functions are pure; nothing here caches or mutates input.
package analysis
