package commands

import (
	"fmt"
	"io"
	"slices"

	"github.com/jmylchreest/nbclean/pkg/cleaner"
)

// statusPrinter prints progress lines as CleanFile reaches each step.
type statusPrinter struct {
	w     io.Writer
	quiet bool
}

func newStatusPrinter(w io.Writer, quiet bool) *statusPrinter {
	return &statusPrinter{w: w, quiet: quiet}
}

func (p *statusPrinter) printf(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *statusPrinter) OnRead(path string) {
	p.printf("[INFO] Reading: %s", path)
}

func (p *statusPrinter) OnLoaded(string) {
	p.printf("[INFO] JSON loaded OK")
}

func (p *statusPrinter) OnRootMetadata(removed []string, keys []string) {
	for _, key := range keys {
		if slices.Contains(removed, key) {
			p.printf("[INFO] metadata.%s present -> removed", key)
		} else {
			p.printf("[INFO] no metadata.%s at root level", key)
		}
	}
}

func (p *statusPrinter) OnCells(removed int, scanned int) {
	p.printf("[INFO] cell metadata keys removed: %d (%d cells)", removed, scanned)
}

func (p *statusPrinter) OnSaved(report *cleaner.Report) {
	if report.Written {
		p.printf("[OK] Notebook cleaned and saved")
	} else {
		p.printf("[OK] Notebook cleaned (dry run, file not written)")
	}
	p.printf("      - root widgets removed: %t", report.HadWidgetsMeta)
	p.printf("      - cell keys removed: %d", report.RemovedCellKeys)
	p.printf("File: %s", report.File)
}
