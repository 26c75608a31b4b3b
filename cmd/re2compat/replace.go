package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coregx/re2compat"
)

var (
	replaceAll      bool
	showDiff        bool
	writeFiles      bool
	caseInsensitive bool
)

// replaceCmd applies a pattern and rewrite to files
var replaceCmd = &cobra.Command{
	Use:   "replace PATTERN REWRITE FILE...",
	Short: "Replace pattern matches in files using a rewrite template",
	Long: `Replaces the first match (or every match with --all) of PATTERN in each
FILE with REWRITE. The result is printed unless --diff or --write is given.

Example:
  re2compat replace --all --diff '(\w+)@(\w+)\.com' '\2 at \1' contacts.txt`,
	Args: cobra.MinimumNArgs(3),
	RunE: runReplace,
}

func init() {
	replaceCmd.Flags().BoolVarP(&replaceAll, "all", "a", false, "Replace every match, not just the first")
	replaceCmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "Print a unified diff instead of the result")
	replaceCmd.Flags().BoolVarP(&writeFiles, "write", "w", false, "Write results back to the files")
	replaceCmd.Flags().BoolVarP(&caseInsensitive, "ignore-case", "i", false, "Match case-insensitively")
}

func runReplace(cmd *cobra.Command, args []string) error {
	pattern, rw, files := args[0], args[1], args[2:]

	re, err := re2compat.Compile(pattern, re2compat.Options{CaseInsensitive: caseInsensitive})
	if err != nil {
		return err
	}
	if err := re.CheckRewriteString(rw); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range files {
		// #nosec G304 - files are named by the user on the command line
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		original := string(data)

		modified, n := applyRewrite(original, re, rw)
		logger.Debug("Replaced matches", zap.String("file", path), zap.Int("count", n))

		if showDiff {
			fmt.Fprint(out, unifiedDiff(path, original, modified))
		}
		if writeFiles {
			if n > 0 {
				if err := writeFilePreservingMode(path, []byte(modified)); err != nil {
					return err
				}
			}
			logger.Info("Updated file", zap.String("file", path), zap.Int("replacements", n))
		}
		if !showDiff && !writeFiles {
			fmt.Fprint(out, modified)
		}
	}
	return nil
}

// applyRewrite replaces the first or every match depending on --all
func applyRewrite(text string, re *re2compat.Regex, rw string) (string, int) {
	if replaceAll {
		return re2compat.GlobalReplace(text, re, rw)
	}
	if out, ok := re2compat.Replace(text, re, rw); ok {
		return out, 1
	}
	return text, 0
}

// unifiedDiff creates a unified diff, empty when nothing changed
func unifiedDiff(path, original, modified string) string {
	if original == modified {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s\n@@ changes @@\n%d bytes -> %d bytes\n",
			path, path, len(original), len(modified))
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}

func writeFilePreservingMode(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
