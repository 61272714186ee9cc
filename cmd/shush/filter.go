package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shushd/shush"
	"github.com/shushd/shush/pkg/report"
)

var (
	filterInputPath   string
	filterOutputPath  string
	filterFormat      string
	filterCachePath   string
	filterGrammarPath string
	filterNoColor     bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter a diagnostic stream through inline suppression directives",
	Long: `Read JSON-lines diagnostics, drop the ones suppressed by inline
directives in their source files, and write the kept ones.

Unreadable files fail open: their diagnostics are kept and a warning is
printed, so infrastructure failure never hides real problems.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVar(&filterInputPath, "input", "-", "Diagnostic stream path (- for stdin)")
	filterCmd.Flags().StringVar(&filterOutputPath, "output", "-", "Output path (- for stdout)")
	filterCmd.Flags().StringVar(&filterFormat, "format", "json", "Output format: json, sarif, human")
	filterCmd.Flags().StringVar(&filterCachePath, "cache", "", "Snapshot cache database path (empty = no cache)")
	filterCmd.Flags().StringVar(&filterGrammarPath, "grammar", "", "Custom directive grammar YAML file")
	filterCmd.Flags().BoolVar(&filterNoColor, "no-color", false, "Disable colored output")
}

func runFilter(cmd *cobra.Command, args []string) error {
	in, closeIn, err := openInput(filterInputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(filterOutputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	opts := []shush.Option{
		shush.WithWarnFunc(func(format string, a ...interface{}) {
			if !quiet {
				warnColor().Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", a...)
			}
		}),
	}
	if filterCachePath != "" {
		opts = append(opts, shush.WithCachePath(filterCachePath))
	}
	if filterGrammarPath != "" {
		opts = append(opts, shush.WithGrammarFile(filterGrammarPath))
	}

	sup, err := shush.New(opts...)
	if err != nil {
		return err
	}
	defer sup.Close()

	var kept, suppressed int
	emit, finish, err := newEmitter(filterFormat, out)
	if err != nil {
		return err
	}

	err = report.ReadStream(in, func(d *report.Diagnostic) error {
		if !sup.Keep(d) {
			suppressed++
			return nil
		}
		kept++
		return emit(d)
	})
	if err != nil {
		return err
	}

	if err := finish(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d kept, %d suppressed\n", kept, suppressed)
	}
	return nil
}

// newEmitter returns a per-diagnostic emit function and a stream finisher
// for the chosen output format.
func newEmitter(format string, out io.Writer) (func(*report.Diagnostic) error, func() error, error) {
	switch format {
	case "json":
		w := report.NewStreamWriter(out)
		return w.Write, func() error { return nil }, nil
	case "sarif":
		sr := report.NewSarifReport()
		emit := func(d *report.Diagnostic) error {
			sr.AddDiagnostic(d)
			return nil
		}
		return emit, func() error { return sr.WriteTo(out) }, nil
	case "human":
		emit := func(d *report.Diagnostic) error {
			return writeHuman(out, d)
		}
		return emit, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown format: %s (want json, sarif, or human)", format)
	}
}

// writeHuman prints one diagnostic in grep-style file:line: form.
func writeHuman(out io.Writer, d *report.Diagnostic) error {
	loc := d.File
	if d.Region != nil {
		loc = fmt.Sprintf("%s:%d:%d", d.File, d.Region.StartLine, d.Region.StartColumn)
	}

	origin := d.Analyzer
	if d.Rule != "" {
		origin = d.Analyzer + "(" + d.Rule + ")"
	}

	_, err := fmt.Fprintf(out, "%s: %s %s\n",
		locColor().Sprint(loc),
		originColor().Sprint(origin),
		d.Message,
	)
	return err
}

func warnColor() *color.Color {
	return styled(color.New(color.FgYellow))
}

func locColor() *color.Color {
	return styled(color.New(color.Bold, color.FgHiWhite))
}

func originColor() *color.Color {
	return styled(color.New(color.FgHiBlue))
}

func styled(c *color.Color) *color.Color {
	if filterNoColor {
		c.DisableColor()
	}
	return c
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return f, func() { f.Close() }, nil
}
