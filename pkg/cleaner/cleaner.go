// Package cleaner removes transient editor metadata from Jupyter notebooks.
// Cleaners edit a parsed notebook.Document in memory; CleanFile wraps them
// with loading, serialization and an in-place rewrite of the file.
package cleaner

import "github.com/jmylchreest/nbclean/pkg/notebook"

// Cleaner removes unwanted content from a notebook document.
type Cleaner interface {
	// Clean edits doc in place and records what it did in stats.
	Clean(doc *notebook.Document, stats *Stats) error

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
