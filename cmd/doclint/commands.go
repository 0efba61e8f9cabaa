// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gitpkg "github.com/petar-djukic/doclint/internal/git"
	"github.com/petar-djukic/doclint/internal/report"
	"github.com/petar-djukic/doclint/pkg/doclint"
)

// outputFlags are shared by lint and fix.
func outputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "text", "Output format: text or json")
	cmd.Flags().Int("context", 2, "Source lines shown around each diagnostic in text output")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file")
}

func textOptions(cmd *cobra.Command, root string) report.TextOptions {
	contextLines, _ := cmd.Flags().GetInt("context")
	noColor, _ := cmd.Flags().GetBool("no-color")
	return report.TextOptions{ContextLines: contextLines, Color: !noColor && !color.NoColor, Root: root}
}

func checkFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return "", fmt.Errorf("unknown format %q", format)
	}
	return format, nil
}

func writeMetrics(cmd *cobra.Command, l doclint.Linter) error {
	path, _ := cmd.Flags().GetString("metrics-file")
	if path == "" {
		return nil
	}
	if err := l.WriteMetrics(path); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// newLintCmd creates the "lint" command.
func newLintCmd(v *viper.Viper, log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Report doc comment problems",
		Long:  "Lint scans the source tree and reports every doc comment problem in the given files or directories. It exits with status 1 when problems are found.",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := checkFormat(cmd)
			if err != nil {
				return err
			}
			l, err := newLinter(v, log)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			res, err := l.Lint(ctx, doclint.LintOptions{Paths: args, ChangedOnly: v.GetBool("changed-only")})
			if err != nil {
				return err
			}
			for _, e := range res.ScanErrors {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", e)
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				err = report.JSON(out, res.Diagnostics)
			} else {
				err = report.Text(out, res.Diagnostics, textOptions(cmd, res.Root))
			}
			if err != nil {
				return err
			}
			if err := writeMetrics(cmd, l); err != nil {
				return err
			}
			if len(res.Diagnostics) > 0 {
				return errFindings
			}
			return nil
		},
	}
	outputFlags(cmd)
	return cmd
}

// newFixCmd creates the "fix" command.
func newFixCmd(v *viper.Viper, log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Rewrite fixable doc comments",
		Long:  "Fix rewrites every doc comment with fixable problems in the given files or directories and reports what is left.",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := checkFormat(cmd)
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			commit, _ := cmd.Flags().GetBool("commit")
			commitDirty, _ := cmd.Flags().GetBool("commit-dirty")

			l, err := newLinter(v, log)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			res, err := l.Fix(ctx, doclint.FixOptions{
				Paths:       args,
				ChangedOnly: v.GetBool("changed-only"),
				DryRun:      dryRun,
				Commit:      commit,
				CommitDirty: commitDirty,
			})
			out := cmd.OutOrStdout()
			if errors.Is(err, doclint.ErrNoFixes) {
				fmt.Fprintln(out, "nothing to fix")
				return writeMetrics(cmd, l)
			}
			if err != nil {
				return err
			}

			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else if err := printFixes(out, res, dryRun, textOptions(cmd, res.Root)); err != nil {
				return err
			}
			return writeMetrics(cmd, l)
		},
	}
	cmd.Flags().Bool("dry-run", false, "Show the changes as a diff without writing files")
	cmd.Flags().Bool("commit", false, "Commit the fixed files to git")
	cmd.Flags().Bool("commit-dirty", false, "With --commit, save uncommitted changes in a separate commit first")
	outputFlags(cmd)
	return cmd
}

func printFixes(w io.Writer, res *doclint.FixResult, dryRun bool, opts report.TextOptions) error {
	comments := 0
	for _, c := range res.Changes {
		comments += c.Fixes
		if dryRun {
			if _, err := io.WriteString(w, c.Diff); err != nil {
				return err
			}
		}
	}
	for _, f := range res.Failed {
		fmt.Fprintf(w, "not fixed: %s\n", f)
	}
	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}
	fmt.Fprintf(w, "%s %d comments in %d files", verb, comments, len(res.Changes))
	if res.Committed {
		fmt.Fprint(w, " (committed)")
	}
	fmt.Fprintln(w)
	if len(res.Diagnostics) == 0 {
		return nil
	}
	fmt.Fprintln(w, "remaining:")
	return report.Text(w, res.Diagnostics, opts)
}

// newRulesCmd creates the "rules" command.
func newRulesCmd(v *viper.Viper, log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the available rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLinter(v, log)
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(l.Rules())
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSEVERITY\tFIX\tENABLED\tNAME\tDESCRIPTION")
			for _, r := range l.Rules() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Severity, yesNo(r.Fixable), yesNo(r.Enabled), r.Name, r.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Bool("json", false, "Print the rules as JSON")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// newUndoCmd creates the "undo" command.
func newUndoCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last doclint fix commit",
		Long:  "Undo performs a soft reset of the last commit if doclint made it, leaving the fixes in the working tree.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: v.GetString("workdir")})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}
			if err := repo.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reverted the last doclint commit.")
			return nil
		},
	}
}
