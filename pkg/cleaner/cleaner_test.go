package cleaner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/jmylchreest/nbclean/internal/logger"
	"github.com/jmylchreest/nbclean/pkg/notebook"
)

// readTestdata reads a file from the testdata directory
func readTestdata(t *testing.T, filename string) []byte {
	t.Helper()
	path := filepath.Join("testdata", filename)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read testdata %s: %v", filename, err)
	}
	return data
}

func mustParse(t *testing.T, src string) *notebook.Document {
	t.Helper()
	doc, err := notebook.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

// --- RootMetadataCleaner Tests ---

func TestRootMetadataCleaner_RemovesWidgets(t *testing.T) {
	doc := mustParse(t, `{"metadata": {"widgets": {"state": {}}, "kernelspec": {}}, "cells": []}`)
	stats := NewStats()

	if err := NewRootMetadata(DefaultRootKeys).Clean(doc, stats); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if gjson.GetBytes(doc.Bytes(), "metadata.widgets").Exists() {
		t.Error("root widgets should be removed")
	}
	if !gjson.GetBytes(doc.Bytes(), "metadata.kernelspec").Exists() {
		t.Error("unrelated metadata must survive")
	}
	if !stats.RootKeyRemoved("widgets") {
		t.Errorf("expected widgets in RootKeysRemoved, got %v", stats.RootKeysRemoved)
	}
	if stats.MetadataCreated != 0 {
		t.Errorf("expected no metadata created, got %d", stats.MetadataCreated)
	}
}

func TestRootMetadataCleaner_MaterializesMetadata(t *testing.T) {
	doc := mustParse(t, `{"cells": [], "nbformat": 4}`)
	stats := NewStats()

	if err := NewRootMetadata(DefaultRootKeys).Clean(doc, stats); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	md := gjson.GetBytes(doc.Bytes(), "metadata")
	if !md.IsObject() || md.Raw != "{}" {
		t.Errorf("expected empty metadata object, got %q", md.Raw)
	}
	if len(stats.RootKeysRemoved) != 0 {
		t.Errorf("expected nothing removed, got %v", stats.RootKeysRemoved)
	}
	if stats.MetadataCreated != 1 {
		t.Errorf("expected 1 metadata created, got %d", stats.MetadataCreated)
	}
}

func TestRootMetadataCleaner_NonObjectMetadata(t *testing.T) {
	doc := mustParse(t, `{"metadata": ["widgets"]}`)

	err := NewRootMetadata(DefaultRootKeys).Clean(doc, NewStats())

	var typeErr *notebook.TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected TypeError, got %v", err)
	}
}

func TestRootMetadataCleaner_Name(t *testing.T) {
	if got := NewRootMetadata(nil).Name(); got != "root-metadata" {
		t.Errorf("Name() = %q, want %q", got, "root-metadata")
	}
}

// --- CellMetadataCleaner Tests ---

func TestCellMetadataCleaner_CountsRemovals(t *testing.T) {
	doc := mustParse(t, `{"cells": [
		{"metadata": {"widgets": 1, "widget_view": 2, "tags": ["keep"]}},
		{"metadata": {"init_cell": true, "execution": {}}},
		{"metadata": {"collapsed": true}},
		{"source": []}
	]}`)
	stats := NewStats()

	if err := NewCellMetadata(DefaultCellKeys).Clean(doc, stats); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if got := stats.TotalCellKeysRemoved(); got != 4 {
		t.Errorf("expected 4 keys removed, got %d", got)
	}
	if stats.CellsScanned != 4 {
		t.Errorf("expected 4 cells scanned, got %d", stats.CellsScanned)
	}
	if stats.MetadataCreated != 1 {
		t.Errorf("expected 1 metadata created, got %d", stats.MetadataCreated)
	}
	for _, key := range DefaultCellKeys {
		if stats.CellKeysRemoved[key] != 1 {
			t.Errorf("expected %s removed once, got %d", key, stats.CellKeysRemoved[key])
		}
	}

	gjson.GetBytes(doc.Bytes(), "cells").ForEach(func(_, cell gjson.Result) bool {
		md := cell.Get("metadata")
		if !md.IsObject() {
			t.Errorf("cell metadata should be an object, got %q", md.Raw)
		}
		for _, key := range DefaultCellKeys {
			if md.Get(key).Exists() {
				t.Errorf("cell still has %s: %s", key, md.Raw)
			}
		}
		return true
	})

	if got := gjson.GetBytes(doc.Bytes(), "cells.0.metadata.tags.0").String(); got != "keep" {
		t.Errorf("unrelated cell metadata lost, got %q", got)
	}
}

func TestCellMetadataCleaner_NoCells(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.Init(logger.Options{Output: buf})
	defer logger.Init(logger.Options{})

	doc := mustParse(t, `{"metadata": {}}`)
	stats := NewStats()

	if err := NewCellMetadata(DefaultCellKeys).Clean(doc, stats); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if gjson.GetBytes(doc.Bytes(), "cells").Exists() {
		t.Error("cells must not be created when absent")
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "no cells") {
		t.Errorf("expected a warning about the missing cells, got %q", buf.String())
	}
}

func TestCellMetadataCleaner_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"cells is object", `{"cells": {"metadata": {}}}`},
		{"cell is string", `{"cells": [{}, "oops"]}`},
		{"cell metadata is number", `{"cells": [{"metadata": 3}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.input)
			err := NewCellMetadata(DefaultCellKeys).Clean(doc, NewStats())

			var typeErr *notebook.TypeError
			if !errors.As(err, &typeErr) {
				t.Errorf("expected TypeError, got %v", err)
			}
		})
	}
}

// --- ChainCleaner Tests ---

func TestChainCleaner_AppliesInOrder(t *testing.T) {
	doc := mustParse(t, `{"metadata": {"widgets": {}}, "cells": [{"metadata": {"execution": {}}}]}`)
	stats := NewStats()

	chain := NewChain(NewRootMetadata(DefaultRootKeys), NewCellMetadata(DefaultCellKeys))
	if err := chain.Clean(doc, stats); err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if !stats.RootKeyRemoved("widgets") {
		t.Error("root cleaner did not run")
	}
	if stats.TotalCellKeysRemoved() != 1 {
		t.Error("cell cleaner did not run")
	}
}

func TestChainCleaner_StopsOnError(t *testing.T) {
	doc := mustParse(t, `{"metadata": "bad", "cells": [{"metadata": {"execution": {}}}]}`)
	stats := NewStats()

	chain := NewChain(NewRootMetadata(DefaultRootKeys), NewCellMetadata(DefaultCellKeys))
	if err := chain.Clean(doc, stats); err == nil {
		t.Fatal("expected error")
	}
	if stats.CellsScanned != 0 {
		t.Errorf("cell cleaner should not run after a failure, scanned %d", stats.CellsScanned)
	}
}

func TestChainCleaner_Name(t *testing.T) {
	chain := DefaultConfig().Build()

	if got, want := chain.Name(), "chain(root-metadata->cell-metadata)"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
}
