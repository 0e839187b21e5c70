package cleaner

import (
	"github.com/pkg/errors"

	"github.com/jmylchreest/nbclean/internal/logger"
	"github.com/jmylchreest/nbclean/pkg/notebook"
)

// RootMetadataCleaner removes keys from the notebook-level metadata object.
//
// The metadata object is always written back, so a notebook without one
// gains an empty "metadata": {} member.
type RootMetadataCleaner struct {
	keys []string
}

// NewRootMetadata creates a cleaner that removes keys from root metadata.
func NewRootMetadata(keys []string) *RootMetadataCleaner {
	return &RootMetadataCleaner{keys: keys}
}

// Name returns the cleaner type.
func (c *RootMetadataCleaner) Name() string {
	return "root-metadata"
}

// Clean removes the configured keys from doc's root metadata.
func (c *RootMetadataCleaner) Clean(doc *notebook.Document, stats *Stats) error {
	md, found, err := doc.Metadata()
	if err != nil {
		return err
	}
	if !found {
		stats.MetadataCreated++
		logger.Debug("materializing root metadata")
	}

	for _, key := range c.keys {
		removed, err := md.Delete(key)
		if err != nil {
			return err
		}
		if removed {
			stats.RecordRootKey(key)
			logger.Debug("removed root metadata key", "key", key)
		}
	}

	return doc.SetMetadata(md)
}

// CellMetadataCleaner removes keys from every cell's metadata object.
//
// Keys are checked in the configured order within each cell, and each cell's
// metadata is written back whether or not anything was removed.
type CellMetadataCleaner struct {
	keys []string
}

// NewCellMetadata creates a cleaner that removes keys from cell metadata.
func NewCellMetadata(keys []string) *CellMetadataCleaner {
	return &CellMetadataCleaner{keys: keys}
}

// Name returns the cleaner type.
func (c *CellMetadataCleaner) Name() string {
	return "cell-metadata"
}

// Clean removes the configured keys from each cell in doc.
func (c *CellMetadataCleaner) Clean(doc *notebook.Document, stats *Stats) error {
	cells, found, err := doc.Cells()
	if err != nil {
		return err
	}
	if !found {
		logger.Warn("notebook has no cells member")
		return nil
	}

	for _, cell := range cells {
		if err := c.cleanCell(cell, stats); err != nil {
			return errors.Wrapf(err, "cell %d", cell.Index)
		}
	}

	return doc.SetCells(cells)
}

func (c *CellMetadataCleaner) cleanCell(cell *notebook.Cell, stats *Stats) error {
	stats.CellsScanned++

	md, found, err := cell.Metadata()
	if err != nil {
		return err
	}
	if !found {
		stats.MetadataCreated++
	}

	for _, key := range c.keys {
		removed, err := md.Delete(key)
		if err != nil {
			return err
		}
		if removed {
			stats.RecordCellKey(key)
			logger.Debug("removed cell metadata key", "cell", cell.Index, "key", key)
		}
	}

	return cell.SetMetadata(md)
}
