package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coregx/re2compat/rewrite"
)

var checkGroups int

// rewriteCmd groups the template subcommands
var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Inspect and expand rewrite templates",
	Long: `Rewrite templates use \0 for the whole match, \1 to \9 for groups and
\\ for a literal backslash. Any other backslash is an error.`,
}

var rewriteMaxCmd = &cobra.Command{
	Use:   "max TEMPLATE",
	Short: "Print the largest group index the template references",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), rewrite.MaxBackreference(args[0]))
		return nil
	},
}

var rewriteCheckCmd = &cobra.Command{
	Use:   "check TEMPLATE",
	Short: "Check a template against a number of capture groups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := rewrite.Check(args[0], checkGroups); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

var rewriteConvertCmd = &cobra.Command{
	Use:   "convert TEMPLATE",
	Short: "Convert a template to ${N} syntax",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), rewrite.ConvertToHostSyntax(args[0]))
		return nil
	},
}

var rewriteExpandCmd = &cobra.Command{
	Use:   "expand TEMPLATE [CAPTURE...]",
	Short: "Expand a template; the first capture is \\0",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := rewrite.Expand(args[0], args[1:])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rewriteCheckCmd.Flags().IntVarP(&checkGroups, "groups", "g", 0, "Number of capture groups in the pattern")

	rewriteCmd.AddCommand(rewriteMaxCmd)
	rewriteCmd.AddCommand(rewriteCheckCmd)
	rewriteCmd.AddCommand(rewriteConvertCmd)
	rewriteCmd.AddCommand(rewriteExpandCmd)
}
