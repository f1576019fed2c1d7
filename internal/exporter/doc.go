// Package exporter serializes filtered views for download: a delimited
// CSV of the observations and a plain-text analysis report. Output is
// deterministic apart from the report's generation timestamp.
package exporter
