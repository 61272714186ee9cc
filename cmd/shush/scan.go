package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shushd/shush"
)

var (
	scanCachePath     string
	scanGrammarPath   string
	scanMaxFileSize   int64
	scanIncludeHidden bool
	scanWorkers       int
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Pre-warm the suppression cache for a directory tree",
	Long: `Walk a directory tree, resolve every file's ignore directives, and save
the snapshots to the cache database. Later filter runs against unchanged
files answer from the cache without reading them.

Files matched by a .gitignore at the tree root are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanCachePath, "cache", "shush.db", "Snapshot cache database path")
	scanCmd.Flags().StringVar(&scanGrammarPath, "grammar", "", "Custom directive grammar YAML file")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to scan (bytes)")
	scanCmd.Flags().BoolVar(&scanIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", runtime.NumCPU(), "Number of concurrent scan workers")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]

	if info, err := os.Stat(root); err != nil {
		return fmt.Errorf("target does not exist: %s", root)
	} else if !info.IsDir() {
		return fmt.Errorf("target is not a directory: %s", root)
	}

	opts := []shush.Option{shush.WithCachePath(scanCachePath)}
	if scanGrammarPath != "" {
		opts = append(opts, shush.WithGrammarFile(scanGrammarPath))
	}

	sup, err := shush.New(opts...)
	if err != nil {
		return err
	}
	defer sup.Close()

	files, err := collectFiles(root)
	if err != nil {
		return err
	}

	// Whole-file queries force a full resolve of each file; the manager
	// serializes per file, so distinct files scan in parallel safely.
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(scanWorkers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			if _, err := sup.IsIgnored(shush.WholeFileRange(shush.FileID(path)), "", ""); err != nil {
				if !quiet {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipping %s: %v\n", path, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := sup.Flush(); err != nil {
		return fmt.Errorf("saving snapshots: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "scanned %d files into %s\n", len(files), scanCachePath)
	}
	return nil
}

// collectFiles walks the tree and returns eligible file paths.
func collectFiles(root string) ([]string, error) {
	// Load .gitignore patterns if present
	var ignore *gitignore.GitIgnore
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		ignore, _ = gitignore.CompileIgnoreFile(gitignorePath)
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !scanIncludeHidden && isHidden(info.Name()) && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if !scanIncludeHidden && isHidden(info.Name()) {
			return nil
		}

		if scanMaxFileSize > 0 && info.Size() > scanMaxFileSize {
			return nil
		}

		if ignore != nil {
			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if ignore.MatchesPath(relPath) {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return files, nil
}

// isHidden reports whether a file or directory name is hidden (dot-prefixed).
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
