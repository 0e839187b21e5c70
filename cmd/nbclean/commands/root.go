// Package commands implements the CLI for nbclean.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/nbclean/internal/logger"
	"github.com/jmylchreest/nbclean/internal/output"
	"github.com/jmylchreest/nbclean/internal/version"
	"github.com/jmylchreest/nbclean/pkg/cleaner"
	"github.com/jmylchreest/nbclean/pkg/notebook"
)

const usageLine = "nbclean PATH_TO_NOTEBOOK.ipynb"

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   usageLine,
		Short: "Strip widget state and execution metadata from Jupyter notebooks",
		Long: `nbclean removes ipywidgets state and per-cell execution metadata from a
Jupyter notebook and rewrites the file in place.

Notebook-level metadata.widgets is dropped, as are the widgets, widget_view,
init_cell and execution keys of every cell's metadata. Everything else is
kept in its original order.

Examples:
  # Clean a notebook in place
  nbclean analysis.ipynb

  # Show what would be removed without touching the file
  nbclean --dry-run --report json analysis.ipynb

  # Also drop colab metadata at the notebook level
  nbclean --root-key widgets --root-key colab analysis.ipynb`,
		Version:       version.String(),
		Args:          requirePath,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, v, args[0])
		},
	}
	cmd.SetVersionTemplate(version.Full() + "\n")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &cleaner.UsageError{Usage: usageLine, Err: err}
	})

	flags := cmd.Flags()
	flags.String("config", "", "config file (default $HOME/.nbclean.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log-format", "text", "log format: text, json")
	flags.BoolP("quiet", "q", false, "suppress status output")

	flags.StringSlice("root-key", cleaner.DefaultRootKeys, "notebook metadata key to remove (repeatable)")
	flags.StringSlice("cell-key", cleaner.DefaultCellKeys, "cell metadata key to remove (repeatable)")
	flags.Int("indent", notebook.DefaultIndent, "spaces per indentation level")
	flags.Bool("ensure-ascii", false, "escape non-ASCII characters")
	flags.Bool("dry-run", false, "report what would be removed without writing")
	flags.String("report", "", "print a machine-readable report: json, yaml")
	flags.Bool("no-color", false, "never colour the JSON report")

	for key, name := range map[string]string{
		"config":       "config",
		"debug":        "debug",
		"log_format":   "log-format",
		"quiet":        "quiet",
		"root_keys":    "root-key",
		"cell_keys":    "cell-key",
		"indent":       "indent",
		"ensure_ascii": "ensure-ascii",
		"dry_run":      "dry-run",
		"report":       "report",
		"no_color":     "no-color",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	return cmd
}

func requirePath(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return &cleaner.UsageError{Usage: usageLine, Err: cleaner.ErrNoPath}
	case 1:
		return nil
	default:
		return &cleaner.UsageError{
			Usage: usageLine,
			Err:   fmt.Errorf("expected one notebook path, got %d", len(args)),
		}
	}
}

func initConfig(v *viper.Viper) error {
	cfgFile := v.GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".nbclean")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("NBCLEAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default config is fine; an explicit one must load.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return &cleaner.ProcessError{Path: cfgFile, Stage: "configure", Err: errors.WithStack(err)}
		}
	}

	format, err := logger.ParseFormat(v.GetString("log_format"))
	if err != nil {
		return &cleaner.UsageError{Usage: usageLine, Err: err}
	}
	logger.Init(logger.Options{
		Debug:  v.GetBool("debug"),
		Quiet:  v.GetBool("quiet"),
		Format: format,
	})
	if used := v.ConfigFileUsed(); used != "" {
		logger.Info("loaded config", "file", used)
	}
	return nil
}

// configFrom builds the cleaner configuration from flags, environment and
// config file, in that order of precedence.
func configFrom(v *viper.Viper) *cleaner.Config {
	cfg := cleaner.DefaultConfig()
	cfg.RootKeys = splitKeys(v.GetStringSlice("root_keys"))
	cfg.CellKeys = splitKeys(v.GetStringSlice("cell_keys"))
	cfg.Indent = v.GetInt("indent")
	cfg.EnsureASCII = v.GetBool("ensure_ascii")
	cfg.DryRun = v.GetBool("dry_run")
	return cfg
}

// splitKeys splits comma-separated entries, so NBCLEAN_ROOT_KEYS accepts
// "widgets,colab" as well as "widgets colab".
func splitKeys(values []string) []string {
	var keys []string
	for _, v := range values {
		for _, key := range strings.Split(v, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

func runClean(cmd *cobra.Command, v *viper.Viper, path string) error {
	var reportFormat output.Format
	if s := v.GetString("report"); s != "" {
		f, err := output.ParseFormat(s)
		if err != nil {
			return &cleaner.UsageError{Usage: usageLine, Err: err}
		}
		reportFormat = f
	}

	stdout := cmd.OutOrStdout()
	report, err := cleaner.CleanFile(path,
		cleaner.WithConfig(configFrom(v)),
		cleaner.WithObserver(newStatusPrinter(stdout, v.GetBool("quiet"))),
	)
	if err != nil {
		return err
	}

	if reportFormat == "" {
		return nil
	}
	var opts []output.WriterOption
	if v.GetBool("no_color") {
		opts = append(opts, output.WithColor(false))
	}
	w, err := output.NewWriter(stdout, reportFormat, opts...)
	if err != nil {
		return err
	}
	if err := w.Write(report); err != nil {
		return err
	}
	return w.Flush()
}

// Execute runs the root command and prints any error the way the exit code
// classifies it.
func Execute() error {
	return execute(newRootCmd())
}

func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		printError(cmd.OutOrStdout(), cmd.ErrOrStderr(), err)
	}
	return err
}
