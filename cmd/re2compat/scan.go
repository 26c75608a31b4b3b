package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coregx/re2compat"
	"github.com/coregx/re2compat/filtered"
	"github.com/coregx/re2compat/internal/config"
)

var rulesPath string

// scanCmd matches files against a rule set
var scanCmd = &cobra.Command{
	Use:   "scan --rules FILE [PATH...]",
	Short: "Match files against a YAML rule set",
	Long: `Walks each PATH (default: the current directory), selects files with the
rule file's include/exclude globs and prints, for every file with a match,
the names of the matching rules. Rules with a rewrite also print the rewrite
applied to their first match.

Rule file:
  workers: 4
  include: ["**/*.log"]
  rules:
    - name: email
      pattern: '(\w+)@(\w+)\.com'
      rewrite: '\2:\1'`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Rule file (required)")
	_ = scanCmd.MarkFlagRequired("rules")
}

// scanResult holds the rules matching one file
type scanResult struct {
	path  string
	rules []int
	text  string
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(rulesPath)
	if err != nil {
		return err
	}

	set, err := buildRuleSet(cfg)
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	var files []string
	for _, root := range roots {
		found, err := selectFiles(root, cfg.Include, cfg.Exclude)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	logger.Debug("Selected files", zap.Int("files", len(files)), zap.Int("rules", len(cfg.Rules)))

	results, err := scanFiles(cmd.Context(), set, files, cfg.Workers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		if len(res.rules) == 0 {
			continue
		}
		names := make([]string, len(res.rules))
		for i, id := range res.rules {
			names[i] = cfg.Rules[id].Name
		}
		fmt.Fprintf(out, "%s: %s\n", res.path, strings.Join(names, ","))

		for _, id := range res.rules {
			rule := &cfg.Rules[id]
			if rule.Rewrite == "" {
				continue
			}
			if text, ok := re2compat.Extract(res.text, rule.Regex(), rule.Rewrite); ok {
				fmt.Fprintf(out, "  %s: %s\n", rule.Name, text)
			}
		}
	}
	return nil
}

// buildRuleSet compiles the rules into a filtered set whose ids are rule indices
func buildRuleSet(cfg *config.Config) (*filtered.Set, error) {
	set := filtered.New(
		filtered.WithMinAtomLen(cfg.MinAtomLen),
		filtered.WithLogger(logger),
	)
	for i := range cfg.Rules {
		rule := &cfg.Rules[i]
		pattern := rule.Pattern
		if rule.CaseInsensitive {
			pattern = "(?i)" + pattern
		}
		if _, err := set.Add(pattern); err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
	}
	atoms, err := set.Compile()
	if err != nil {
		return nil, err
	}
	logger.Debug("Compiled rule set", zap.Int("atoms", len(atoms)))
	return set, nil
}

// selectFiles walks root and returns the regular files whose path relative to
// root matches an include glob and no exclude glob.
func selectFiles(root string, include, exclude []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access path %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if matchAny(exclude, rel) || matchAny(exclude, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(include) > 0 && !matchAny(include, rel) {
			return nil
		}
		if matchAny(exclude, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

// matchAny reports whether path matches any glob. Globs without a '/' also
// match the base name.
func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// scanFiles scans files concurrently. Results are in the order of files.
func scanFiles(ctx context.Context, set *filtered.Set, files []string, workers int) ([]scanResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]scanResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// #nosec G304 - paths come from walking user-supplied roots
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			text := string(data)
			res := scanResult{path: path, rules: set.Scan(text)}
			if len(res.rules) > 0 {
				res.text = text
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
