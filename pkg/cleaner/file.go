package cleaner

import (
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/jmylchreest/nbclean/internal/fsutil"
	"github.com/jmylchreest/nbclean/internal/logger"
	"github.com/jmylchreest/nbclean/pkg/notebook"
)

// Observer receives progress notifications from CleanFile.
// Every method is called synchronously, in the order listed.
type Observer interface {
	// OnRead is called before the file is read.
	OnRead(path string)

	// OnLoaded is called once the content parsed as a JSON object.
	OnLoaded(path string)

	// OnRootMetadata is called once the document was cleaned.
	// removed lists the root keys that were present.
	OnRootMetadata(removed []string, keys []string)

	// OnCells follows OnRootMetadata with the cell totals.
	OnCells(removed int, scanned int)

	// OnSaved is called after the file was written (or skipped in dry-run).
	OnSaved(report *Report)
}

type options struct {
	config   *Config
	fs       afero.Fs
	observer Observer
}

// Option configures CleanFile.
type Option func(*options)

// WithConfig sets the cleaning configuration. Default: DefaultConfig().
func WithConfig(cfg *Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithFs sets the filesystem. Default: the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithObserver sets a progress observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// CleanFile removes the configured metadata keys from the notebook at path
// and rewrites it in place.
//
// Failures before the write leave the file untouched, and the write itself
// replaces the file atomically. Errors are *NotFoundError, *ParseError or
// *ProcessError.
func CleanFile(path string, opts ...Option) (*Report, error) {
	o := &options{
		config:   DefaultConfig(),
		fs:       afero.NewOsFs(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.config == nil {
		o.config = DefaultConfig()
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	cfg := o.config

	if err := cfg.Validate(); err != nil {
		return nil, &ProcessError{Path: path, Stage: "configure", Err: errors.WithStack(err)}
	}

	start := time.Now()
	log := logger.With("path", path)

	exists, err := fsutil.Exists(o.fs, path)
	if err != nil {
		return nil, &ProcessError{Path: path, Stage: "read", Err: errors.WithStack(err)}
	}
	if !exists {
		return nil, &NotFoundError{Path: path}
	}
	isFile, err := fsutil.IsFile(o.fs, path)
	if err != nil {
		return nil, &ProcessError{Path: path, Stage: "read", Err: errors.WithStack(err)}
	}
	if !isFile {
		return nil, &ProcessError{Path: path, Stage: "read", Err: errors.WithStack(ErrNotRegular)}
	}

	o.observer.OnRead(path)
	data, err := fsutil.ReadFile(o.fs, path)
	if err != nil {
		return nil, &ProcessError{Path: path, Stage: "read", Err: errors.WithStack(err)}
	}
	log.Debug("read notebook", "size", humanize.Bytes(uint64(len(data))))

	doc, err := notebook.Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	o.observer.OnLoaded(path)

	stats := NewStats()
	c := cfg.Build()
	log.Debug("cleaning notebook", "cleaner", c.Name())
	if err := c.Clean(doc, stats); err != nil {
		return nil, &ProcessError{Path: path, Stage: "clean", Err: err}
	}
	o.observer.OnRootMetadata(stats.RootKeysRemoved, cfg.RootKeys)
	o.observer.OnCells(stats.TotalCellKeysRemoved(), stats.CellsScanned)

	out, err := doc.Marshal(cfg.EncodeOptions())
	if err != nil {
		return nil, &ProcessError{Path: path, Stage: "encode", Err: err}
	}

	report := &Report{
		Path:            path,
		File:            filepath.Base(path),
		HadWidgetsMeta:  len(stats.RootKeysRemoved) > 0,
		RemovedCellKeys: stats.TotalCellKeysRemoved(),
		Stats:           stats,
		InputBytes:      len(data),
		OutputBytes:     len(out),
		DryRun:          cfg.DryRun,
	}

	if !cfg.DryRun {
		if err := fsutil.WriteFileAtomic(o.fs, path, out); err != nil {
			return nil, &ProcessError{Path: path, Stage: "write", Err: errors.WithStack(err)}
		}
		report.Written = true
	}
	report.Duration = time.Since(start)

	log.Info("notebook cleaned",
		"root_keys_removed", stats.RootKeysRemoved,
		"cell_keys_removed", report.RemovedCellKeys,
		"written", report.Written,
		"size", humanize.Bytes(uint64(len(out))),
		"duration", report.Duration)

	o.observer.OnSaved(report)
	return report, nil
}

type nopObserver struct{}

func (nopObserver) OnRead(string) {}

func (nopObserver) OnLoaded(string) {}

func (nopObserver) OnRootMetadata([]string, []string) {}

func (nopObserver) OnCells(int, int) {}

func (nopObserver) OnSaved(*Report) {}
