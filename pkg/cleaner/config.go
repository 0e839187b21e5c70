package cleaner

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/nbclean/pkg/notebook"
)

// Config defines what the cleaner removes and how the notebook is written back.
type Config struct {
	// RootKeys are removed from the notebook-level "metadata" object.
	RootKeys []string `json:"root_keys" yaml:"root_keys" mapstructure:"root_keys" validate:"dive,required"`

	// CellKeys are removed from every cell's "metadata" object, checked in order.
	CellKeys []string `json:"cell_keys" yaml:"cell_keys" mapstructure:"cell_keys" validate:"dive,required"`

	// Indent is the number of spaces per nesting level in the rewritten file.
	Indent int `json:"indent" yaml:"indent" mapstructure:"indent" validate:"gte=0,lte=8"`

	// EnsureASCII escapes non-ASCII characters instead of writing them literally.
	EnsureASCII bool `json:"ensure_ascii" yaml:"ensure_ascii" mapstructure:"ensure_ascii"`

	// DryRun computes the report without rewriting the file.
	DryRun bool `json:"dry_run" yaml:"dry_run" mapstructure:"dry_run"`
}

// DefaultRootKeys are the notebook-level keys removed by default.
var DefaultRootKeys = []string{"widgets"}

// DefaultCellKeys are the cell-level keys removed by default, in check order.
var DefaultCellKeys = []string{"widgets", "widget_view", "init_cell", "execution"}

// DefaultConfig returns the configuration that strips widget state and
// execution timing and writes one-space indented JSON.
func DefaultConfig() *Config {
	return &Config{
		RootKeys: append([]string(nil), DefaultRootKeys...),
		CellKeys: append([]string(nil), DefaultCellKeys...),
		Indent:   notebook.DefaultIndent,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var msgs []string
	for _, e := range err.(validator.ValidationErrors) {
		msgs = append(msgs, fmt.Sprintf("%s %s", e.Namespace(), formatValidationError(e)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Build returns the cleaner described by the configuration.
func (c *Config) Build() Cleaner {
	return NewChain(
		NewRootMetadata(c.RootKeys),
		NewCellMetadata(c.CellKeys),
	)
}

// EncodeOptions returns the serialization options for the rewritten file.
func (c *Config) EncodeOptions() notebook.EncodeOptions {
	return notebook.EncodeOptions{
		Indent:      c.Indent,
		EnsureASCII: c.EnsureASCII,
	}
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must not be empty"
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
