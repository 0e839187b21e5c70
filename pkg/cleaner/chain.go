package cleaner

import (
	"strings"

	"github.com/jmylchreest/nbclean/pkg/notebook"
)

// ChainCleaner applies multiple cleaners in sequence.
type ChainCleaner struct {
	cleaners []Cleaner
}

// NewChain creates a cleaner that applies cleaners in the order provided.
//
// Example:
//
//	chain := cleaner.NewChain(
//	    cleaner.NewRootMetadata([]string{"widgets"}),
//	    cleaner.NewCellMetadata([]string{"execution"}),
//	)
func NewChain(cleaners ...Cleaner) *ChainCleaner {
	return &ChainCleaner{
		cleaners: cleaners,
	}
}

// Clean applies all cleaners in sequence, stopping at the first error.
func (c *ChainCleaner) Clean(doc *notebook.Document, stats *Stats) error {
	for _, cleaner := range c.cleaners {
		if err := cleaner.Clean(doc, stats); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the names of all chained cleaners.
func (c *ChainCleaner) Name() string {
	names := make([]string, len(c.cleaners))
	for i, cleaner := range c.cleaners {
		names[i] = cleaner.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
