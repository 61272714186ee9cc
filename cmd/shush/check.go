package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shushd/shush"
	"github.com/shushd/shush/pkg/types"
)

var (
	checkAnalyzer    string
	checkRule        string
	checkGrammarPath string
)

var checkCmd = &cobra.Command{
	Use:   "check <file[:line]>",
	Short: "Explain the suppression decision for one location",
	Long: `Check whether a diagnostic at the given location would be suppressed,
and show the directive region responsible. Omitting the line checks the
whole-file case.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkAnalyzer, "analyzer", "", "Analyzer the diagnostic belongs to")
	checkCmd.Flags().StringVar(&checkRule, "rule", "", "Rule within the analyzer")
	checkCmd.Flags().StringVar(&checkGrammarPath, "grammar", "", "Custom directive grammar YAML file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	r, err := parseLocation(args[0])
	if err != nil {
		return err
	}

	var opts []shush.Option
	if checkGrammarPath != "" {
		opts = append(opts, shush.WithGrammarFile(checkGrammarPath))
	}

	sup, err := shush.New(opts...)
	if err != nil {
		return err
	}
	defer sup.Close()

	iv, err := sup.Explain(r, checkAnalyzer, checkRule)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if iv == nil {
		fmt.Fprintln(out, "not ignored")
		return nil
	}

	switch {
	case iv.Origin == types.KindInline:
		fmt.Fprintf(out, "ignored: inline directive on line %d%s\n", iv.StartLine, describeTargets(iv.Targets))
	case iv.Open():
		fmt.Fprintf(out, "ignored: region from line %d to end of file%s\n", iv.StartLine, describeTargets(iv.Targets))
	default:
		fmt.Fprintf(out, "ignored: region from line %d to line %d%s\n", iv.StartLine, iv.EndLine, describeTargets(iv.Targets))
	}
	return nil
}

// parseLocation splits "file:line" into a query range.
// A bare file path denotes the whole-file query.
func parseLocation(arg string) (types.Range, error) {
	idx := strings.LastIndex(arg, ":")
	if idx <= 0 {
		return types.WholeFileRange(types.FileID(arg)), nil
	}

	line, err := strconv.Atoi(arg[idx+1:])
	if err != nil {
		// Trailing component is not a line number; treat the whole
		// argument as a path (Windows drive letters land here too).
		return types.WholeFileRange(types.FileID(arg)), nil
	}
	if line < 1 {
		return types.Range{}, fmt.Errorf("line must be 1-based, got %d", line)
	}

	return types.LineRange(types.FileID(arg[:idx]), line), nil
}

func describeTargets(targets []types.Target) string {
	if len(targets) == 0 {
		return " (all analyzers)"
	}
	parts := make([]string, 0, len(targets))
	for _, t := range targets {
		if t.Rule != "" {
			parts = append(parts, t.Analyzer+"("+t.Rule+")")
		} else {
			parts = append(parts, t.Analyzer)
		}
	}
	return " (" + strings.Join(parts, " ") + ")"
}
