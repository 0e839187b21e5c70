package cleaner

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats captures what the cleaners removed.
type Stats struct {
	// RootKeysRemoved lists root metadata keys that were present, in removal order.
	RootKeysRemoved []string `json:"root_keys_removed" yaml:"root_keys_removed"`

	// CellsScanned is the number of cells visited.
	CellsScanned int `json:"cells_scanned" yaml:"cells_scanned"`

	// CellKeysRemoved counts removals per cell metadata key.
	CellKeysRemoved map[string]int `json:"cell_keys_removed" yaml:"cell_keys_removed"`

	// MetadataCreated counts metadata objects that had to be added.
	MetadataCreated int `json:"metadata_created" yaml:"metadata_created"`
}

// NewStats creates a new Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		RootKeysRemoved: []string{},
		CellKeysRemoved: make(map[string]int),
	}
}

// RecordRootKey records that key was removed from root metadata.
func (s *Stats) RecordRootKey(key string) {
	s.RootKeysRemoved = append(s.RootKeysRemoved, key)
}

// RecordCellKey records that key was removed from one cell's metadata.
func (s *Stats) RecordCellKey(key string) {
	s.CellKeysRemoved[key]++
}

// RootKeyRemoved reports whether key was removed from root metadata.
func (s *Stats) RootKeyRemoved(key string) bool {
	return slices.Contains(s.RootKeysRemoved, key)
}

// TotalCellKeysRemoved returns the number of keys removed across all cells.
func (s *Stats) TotalCellKeysRemoved() int {
	total := 0
	for _, count := range s.CellKeysRemoved {
		total += count
	}
	return total
}

// Report is the outcome of cleaning one notebook file.
type Report struct {
	Path string `json:"path" yaml:"path"`
	File string `json:"file" yaml:"file"`

	// HadWidgetsMeta is true when any root metadata key was removed.
	HadWidgetsMeta bool `json:"had_widgets_meta" yaml:"had_widgets_meta"`

	// RemovedCellKeys is the total number of keys removed across all cells.
	RemovedCellKeys int `json:"removed_cell_keys" yaml:"removed_cell_keys"`

	Stats *Stats `json:"stats" yaml:"stats"`

	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	DryRun  bool `json:"dry_run" yaml:"dry_run"`
	Written bool `json:"written" yaml:"written"`

	Duration time.Duration `json:"duration_ns" yaml:"duration"`
}

// String returns a human-readable summary of the report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("File: %s\n", r.File))
	sb.WriteString(fmt.Sprintf("Root keys removed: %s\n", joinOrNone(r.Stats.RootKeysRemoved)))
	sb.WriteString(fmt.Sprintf("Cell keys removed: %d (%d cells scanned)\n", r.RemovedCellKeys, r.Stats.CellsScanned))

	if len(r.Stats.CellKeysRemoved) > 0 {
		keys := make([]string, 0, len(r.Stats.CellKeysRemoved))
		for key := range r.Stats.CellKeysRemoved {
			keys = append(keys, key)
		}
		slices.Sort(keys)

		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = fmt.Sprintf("%s=%d", key, r.Stats.CellKeysRemoved[key])
		}
		sb.WriteString("Removed by key: " + strings.Join(parts, ", ") + "\n")
	}

	sb.WriteString(fmt.Sprintf("Size: %s -> %s\n",
		humanize.Bytes(uint64(r.InputBytes)), humanize.Bytes(uint64(r.OutputBytes))))

	return sb.String()
}

func joinOrNone(keys []string) string {
	if len(keys) == 0 {
		return "none"
	}
	return strings.Join(keys, ", ")
}
