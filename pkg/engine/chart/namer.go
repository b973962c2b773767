// Package chart derives deterministic artifact paths and renders the chart
// for each analysis. Rendering is per-call: every chart builds its own plot
// so handlers stay safely parallelizable.
package chart

import (
	"regexp"
	"strings"
)

// Artifact references one rendered chart. Written once, never mutated; the
// path is derived purely from analysis type and target columns, so repeated
// runs on identical input overwrite rather than accumulate.
type Artifact struct {
	Path    string   `json:"path"`
	Type    string   `json:"analysisType"`
	Columns []string `json:"targetColumns"`
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// Name derives the relative chart path for an (analysis type, columns)
// pair. Pure and deterministic: lower-cased, runs of non-alphanumerics
// collapsed to a single underscore, columns joined with a double underscore
// so distinct column lists can never collide.
func Name(analysisType string, columns []string) string {
	parts := make([]string, 0, len(columns)+1)
	parts = append(parts, sanitize(analysisType))
	for _, c := range columns {
		parts = append(parts, sanitize(c))
	}
	return strings.Join(parts, "__") + ".png"
}

func sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(strings.ToLower(s), "_")
	return strings.Trim(s, "_")
}
