package shush

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func TestNew(t *testing.T) {
	sup, err := New()
	require.NoError(t, err)
	defer sup.Close()
}

func TestIsIgnored(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "main.py", strings.Join([]string{
		"import os",
		"",
		"x = do_thing()  # ignore flake8(E501)",
		"y = other()",
	}, "\n"))

	sup, err := New(WithFs(fs))
	require.NoError(t, err)
	defer sup.Close()

	ignored, err := sup.IsIgnored(LineRange("main.py", 3), "flake8", "E501")
	require.NoError(t, err)
	assert.True(t, ignored)

	ignored, err = sup.IsIgnored(LineRange("main.py", 4), "flake8", "E501")
	require.NoError(t, err)
	assert.False(t, ignored)
}

func TestExplain(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "main.py", strings.Join([]string{
		"# start ignoring pylint",
		"a = 1",
		"b = 2",
		"# stop ignoring pylint",
	}, "\n"))

	sup, err := New(WithFs(fs))
	require.NoError(t, err)
	defer sup.Close()

	iv, err := sup.Explain(LineRange("main.py", 2), "pylint", "C0301")
	require.NoError(t, err)
	require.NotNil(t, iv)
	assert.Equal(t, 1, iv.StartLine)
	assert.Equal(t, 4, iv.EndLine)

	iv, err = sup.Explain(LineRange("main.py", 2), "flake8", "")
	require.NoError(t, err)
	assert.Nil(t, iv)
}

func TestKeepFailsOpen(t *testing.T) {
	var warnings []string
	sup, err := New(
		WithFs(afero.NewMemMapFs()),
		WithWarnFunc(func(format string, args ...interface{}) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		}),
	)
	require.NoError(t, err)
	defer sup.Close()

	// File does not exist: the diagnostic must survive.
	kept := sup.Keep(&Diagnostic{
		Analyzer: "flake8",
		Rule:     "E501",
		Message:  "line too long",
		File:     "missing.py",
	})

	assert.True(t, kept)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "missing.py")
}

func TestKeepSuppressed(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "main.py", "x = 1  # ignore flake8\n")

	sup, err := New(WithFs(fs))
	require.NoError(t, err)
	defer sup.Close()

	kept := sup.Keep(&Diagnostic{
		Analyzer: "flake8",
		Rule:     "E501",
		Message:  "line too long",
		File:     "main.py",
		Region:   &Region{StartLine: 1},
	})

	assert.False(t, kept)
}

func TestCachePathRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shush.db")
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "main.py", "x = 1  # ignore flake8\ny = 2\n")

	sup, err := New(WithFs(fs), WithCachePath(dbPath))
	require.NoError(t, err)

	ignored, err := sup.IsIgnored(LineRange("main.py", 1), "flake8", "")
	require.NoError(t, err)
	assert.True(t, ignored)
	require.NoError(t, sup.Close())

	// A second suppressor over the same cache answers identically.
	sup2, err := New(WithFs(fs), WithCachePath(dbPath))
	require.NoError(t, err)
	defer sup2.Close()

	ignored, err = sup2.IsIgnored(LineRange("main.py", 1), "flake8", "")
	require.NoError(t, err)
	assert.True(t, ignored)
}

func TestWithGrammarFile(t *testing.T) {
	fs := afero.NewOsFs()
	dir := t.TempDir()

	grammarPath := filepath.Join(dir, "grammar.yaml")
	require.NoError(t, afero.WriteFile(fs, grammarPath, []byte(
		"markers:\n  - kind: inline\n    pattern: 'NOLINT\\(([^)]*)\\)'\n",
	), 0644))

	srcPath := filepath.Join(dir, "main.cc")
	require.NoError(t, afero.WriteFile(fs, srcPath, []byte(
		"int x = f();  // NOLINT(clang-tidy)\nint y = g();\n",
	), 0644))

	sup, err := New(WithGrammarFile(grammarPath))
	require.NoError(t, err)
	defer sup.Close()

	ignored, err := sup.IsIgnored(LineRange(FileID(srcPath), 1), "clang-tidy", "")
	require.NoError(t, err)
	assert.True(t, ignored)
}

func TestInvalidate(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFixture(t, fs, "main.py", "x = 1  # ignore flake8\n")

	sup, err := New(WithFs(fs))
	require.NoError(t, err)
	defer sup.Close()

	ignored, err := sup.IsIgnored(LineRange("main.py", 1), "flake8", "")
	require.NoError(t, err)
	assert.True(t, ignored)

	writeFixture(t, fs, "main.py", "x = 1\n")
	sup.Invalidate("main.py")

	ignored, err = sup.IsIgnored(LineRange("main.py", 1), "flake8", "")
	require.NoError(t, err)
	assert.False(t, ignored)
}
