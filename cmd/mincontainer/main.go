// Package main implements the CLI driver that reports the minimum of each dataset.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/715d/mincontainer/internal/batch"
	"github.com/715d/mincontainer/internal/dataset"
)

// Config holds all command-line configuration options.
type Config struct {
	File        string // YAML dataset file; empty runs the built-in datasets
	Verbose     bool   // enables debug logging on stderr
	JSON        bool   // enables JSON output format
	Concurrency int    // datasets evaluated at once; 0 means NumCPU
}

const (
	exitDatasetFailed = 1
	exitError         = 2
)

var (
	// Set via ldflags during build.
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var cfg Config

func main() {
	if err := newRootCmd(&cfg).Execute(); err != nil {
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		var cErr *codedError
		if errors.As(err, &cErr) {
			os.Exit(cErr.code)
		}
		os.Exit(exitError)
	}
}

func newRootCmd(cfg *Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mincontainer",
		Short: "Report the minimum value of each dataset",
		Long: `mincontainer adds every value of a dataset to a container and prints the
smallest one. Datasets are typed (float, int, string) and are read from a YAML
file, or the two built-in demonstration datasets are used.`,
		Example: `  mincontainer                          # Built-in datasets
  mincontainer -f datasets.yaml         # Datasets from a file
  mincontainer -f datasets.yaml --json  # JSON output`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg)
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(cmd.ErrOrStderr(), cfg)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("mincontainer version %s\n  commit: %s\n  built:  %s\n", version, gitCommit, buildTime))

	rootCmd.PersistentFlags().StringVarP(&cfg.File, "file", "f", "", "YAML file of datasets (default: built-in datasets)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&cfg.JSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().IntVarP(&cfg.Concurrency, "concurrency", "c", 0, "Datasets evaluated at once (0 = number of CPUs)")

	return rootCmd
}

func run(cmd *cobra.Command, cfg *Config) error {
	datasets := dataset.Builtin()
	if cfg.File != "" {
		var err error
		slog.Info("loading datasets", "file", cfg.File)
		datasets, err = dataset.Load(cfg.File)
		if err != nil {
			return errWithCode(fmt.Errorf("load: %w", err), exitError)
		}
	}
	slog.Info("evaluating datasets", "num", len(datasets))

	start := time.Now()
	results, err := batch.Runner{Concurrency: cfg.Concurrency}.Run(cmd.Context(), datasets)
	if err != nil {
		return errWithCode(fmt.Errorf("evaluate: %w", err), exitError)
	}
	slog.Info("evaluation completed", "dur", time.Since(start))

	var output string
	if cfg.JSON {
		output, err = formatJSONOutput(results)
		if err != nil {
			return errWithCode(fmt.Errorf("format results: %w", err), exitError)
		}
	} else {
		output = formatTextOutput(results)
	}
	fmt.Fprint(cmd.OutOrStdout(), output)

	for _, r := range results {
		if r.Failed() {
			return errWithCode(nil, exitDatasetFailed)
		}
	}
	return nil
}

func formatTextOutput(results []batch.Result) string {
	var output strings.Builder
	for _, r := range results {
		if r.Failed() {
			fmt.Fprintf(&output, "%s: error: %v\n", r.Label, r.Err)
			continue
		}
		fmt.Fprintf(&output, "%s: %s\n", r.Label, r.Min)
	}
	return output.String()
}

func formatJSONOutput(results []batch.Result) (string, error) {
	out := make([]jResult, 0, len(results))
	for _, r := range results {
		jr := jResult{Result: r}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		out = append(out, jr)
	}

	data, err := json.MarshalIndent(jOutput{
		Results:   out,
		Version:   version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling json output: %w", err)
	}
	return string(data) + "\n", nil
}

type jOutput struct {
	Results   []jResult `json:"results"`
	Version   string    `json:"version"`
	Timestamp string    `json:"timestamp"`
}

type jResult struct {
	batch.Result
	Error string `json:"error,omitempty"`
}

func setupLogging(w io.Writer, cfg *Config) {
	// Disable logger unless verbose flag is set.
	slog.SetDefault(slog.New(slog.DiscardHandler))
	if !cfg.Verbose {
		return
	}
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func errWithCode(err error, code int) error {
	return &codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

func (e *codedError) Unwrap() error {
	return e.err
}
