package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shushd/shush/pkg/report"
)

// newFilterCmd creates a fresh filter command for testing, resetting flag state.
func newFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "filter",
		RunE: runFilter,
	}
	cmd.Flags().StringVar(&filterInputPath, "input", "-", "Diagnostic stream path (- for stdin)")
	cmd.Flags().StringVar(&filterOutputPath, "output", "-", "Output path (- for stdout)")
	cmd.Flags().StringVar(&filterFormat, "format", "json", "Output format: json, sarif, human")
	cmd.Flags().StringVar(&filterCachePath, "cache", "", "Snapshot cache database path (empty = no cache)")
	cmd.Flags().StringVar(&filterGrammarPath, "grammar", "", "Custom directive grammar YAML file")
	cmd.Flags().BoolVar(&filterNoColor, "no-color", false, "Disable colored output")
	return cmd
}

// writeFilterFixtures builds a source tree plus a diagnostic stream against it.
// Returns the input and output stream paths.
func writeFilterFixtures(t *testing.T) (inputPath, outputPath string) {
	t.Helper()
	dir := t.TempDir()

	srcPath := filepath.Join(dir, "main.py")
	src := strings.Join([]string{
		"import os",
		"x = long_call()  # ignore flake8(E501)",
		"y = other_call()",
	}, "\n")
	require.NoError(t, os.WriteFile(srcPath, []byte(src), 0644))

	diags := []report.Diagnostic{
		{
			Analyzer: "flake8",
			Rule:     "E501",
			Message:  "line too long",
			File:     srcPath,
			Region:   &report.Region{StartLine: 2},
		},
		{
			Analyzer: "flake8",
			Rule:     "E501",
			Message:  "line too long",
			File:     srcPath,
			Region:   &report.Region{StartLine: 3},
		},
	}

	var stream bytes.Buffer
	enc := json.NewEncoder(&stream)
	for i := range diags {
		require.NoError(t, enc.Encode(&diags[i]))
	}

	inputPath = filepath.Join(dir, "diags.jsonl")
	require.NoError(t, os.WriteFile(inputPath, stream.Bytes(), 0644))
	return inputPath, filepath.Join(dir, "out")
}

func TestFilterCommand_JSONFormat(t *testing.T) {
	inputPath, outputPath := writeFilterFixtures(t)

	var stderr bytes.Buffer
	cmd := newFilterCmd()
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--input", inputPath, "--output", outputPath, "--format", "json"})

	err := cmd.Execute()
	require.NoError(t, err)

	// Line 2 is suppressed by the inline directive; line 3 survives.
	out, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var kept []*report.Diagnostic
	require.NoError(t, report.ReadStream(bytes.NewReader(out), func(d *report.Diagnostic) error {
		kept = append(kept, d)
		return nil
	}))
	require.Len(t, kept, 1)
	assert.Equal(t, 3, kept[0].Region.StartLine)

	assert.Contains(t, stderr.String(), "1 kept, 1 suppressed")
}

func TestFilterCommand_SarifFormat(t *testing.T) {
	inputPath, outputPath := writeFilterFixtures(t)

	var stderr bytes.Buffer
	cmd := newFilterCmd()
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--input", inputPath, "--output", outputPath, "--format", "sarif"})

	err := cmd.Execute()
	require.NoError(t, err)

	out, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var sarif report.SarifReport
	require.NoError(t, json.Unmarshal(out, &sarif))
	assert.Equal(t, "2.1.0", sarif.Version)
	require.Len(t, sarif.Runs, 1)
	require.Len(t, sarif.Runs[0].Results, 1)
	assert.Equal(t, "flake8/E501", sarif.Runs[0].Results[0].RuleID)
}

func TestFilterCommand_HumanFormat(t *testing.T) {
	inputPath, outputPath := writeFilterFixtures(t)

	var stderr bytes.Buffer
	cmd := newFilterCmd()
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--input", inputPath, "--output", outputPath, "--format", "human", "--no-color"})

	err := cmd.Execute()
	require.NoError(t, err)

	out, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), ":3:")
	assert.Contains(t, string(out), "flake8(E501)")
	assert.Contains(t, string(out), "line too long")
}

func TestFilterCommand_UnknownFormat(t *testing.T) {
	inputPath, outputPath := writeFilterFixtures(t)

	cmd := newFilterCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--input", inputPath, "--output", outputPath, "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestFilterCommand_MissingSourceFailsOpen(t *testing.T) {
	dir := t.TempDir()

	// A diagnostic against a file that does not exist must be kept.
	inputPath := filepath.Join(dir, "diags.jsonl")
	require.NoError(t, os.WriteFile(inputPath, []byte(
		`{"analyzer":"flake8","rule":"E501","message":"line too long","file":"`+
			filepath.ToSlash(filepath.Join(dir, "gone.py"))+`","region":{"start_line":1}}`+"\n",
	), 0644))
	outputPath := filepath.Join(dir, "out")

	var stderr bytes.Buffer
	cmd := newFilterCmd()
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--input", inputPath, "--output", outputPath})

	err := cmd.Execute()
	require.NoError(t, err)

	out, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "line too long")
	assert.Contains(t, stderr.String(), "warning:")
}
