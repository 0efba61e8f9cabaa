// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command doclint lints and fixes C# XML documentation comments.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/doclint/pkg/doclint"
)

const version = "0.1.0"

// errFindings makes the process exit with status 1 without printing an
// error: the report already said everything.
var errFindings = errors.New("problems found")

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	rootCmd := &cobra.Command{
		Use:           "doclint",
		Short:         "Lint and fix C# XML documentation comments",
		Long:          "doclint checks the wording and structure of C# XML doc comments against a catalog of phrase rules and rewrites the comments it can fix.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(v); err != nil {
				return err
			}
			level, err := logrus.ParseLevel(v.GetString("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			log.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.String("workdir", ".", "Source tree root")
	flags.String("config", "", "Config file (default .doclint.yaml in the workdir)")
	flags.StringSlice("enable", nil, "Rule IDs to run (default all)")
	flags.StringSlice("disable", nil, "Rule IDs to skip")
	flags.Int("max-sentence-words", 40, "Longest summary sentence before DL2040 reports")
	flags.String("catalog", "", "Phrase catalog YAML replacing the built-in one")
	flags.String("cache-dir", "", "Directory for the persistent result cache (default in-memory only)")
	flags.Int("cache-size", 4096, "Results kept in memory")
	flags.Int("jobs", 0, "Concurrent workers (default number of CPUs)")
	flags.Bool("changed", false, "Only files that differ from git HEAD")
	flags.String("log-level", "warning", "Log level (debug, info, warning, error)")

	// Bind flags to viper.
	for key, flag := range map[string]string{
		"workdir":            "workdir",
		"config":             "config",
		"rules.enable":       "enable",
		"rules.disable":      "disable",
		"max-sentence-words": "max-sentence-words",
		"catalog":            "catalog",
		"cache-dir":          "cache-dir",
		"cache-size":         "cache-size",
		"jobs":               "jobs",
		"changed-only":       "changed",
		"log-level":          "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	// Env vars: DOCLINT_WORKDIR, DOCLINT_RULES_DISABLE, DOCLINT_CACHE_DIR, etc.
	v.SetEnvPrefix("DOCLINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(newLintCmd(v, log))
	rootCmd.AddCommand(newFixCmd(v, log))
	rootCmd.AddCommand(newRulesCmd(v, log))
	rootCmd.AddCommand(newUndoCmd(v))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// readConfig loads the config file. Without --config, a missing
// .doclint.yaml is not an error.
func readConfig(v *viper.Viper) error {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}
	v.SetConfigName(".doclint")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("workdir"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// newLinter builds a Linter from the merged flags, environment and config file.
func newLinter(v *viper.Viper, log *logrus.Logger) (doclint.Linter, error) {
	l, err := doclint.New(doclint.Config{
		WorkDir:          v.GetString("workdir"),
		Enable:           v.GetStringSlice("rules.enable"),
		Disable:          v.GetStringSlice("rules.disable"),
		Severity:         severities(v),
		MaxSentenceWords: v.GetInt("max-sentence-words"),
		CatalogFile:      v.GetString("catalog"),
		CacheDir:         v.GetString("cache-dir"),
		CacheSize:        v.GetInt("cache-size"),
		Jobs:             v.GetInt("jobs"),
		Logger:           log,
	})
	if err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	return l, nil
}

// severities reads rules.severity. Viper lower-cases map keys, rule IDs
// are upper-case.
func severities(v *viper.Viper) map[string]string {
	out := make(map[string]string)
	for id, s := range v.GetStringMapString("rules.severity") {
		out[strings.ToUpper(id)] = s
	}
	return out
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print doclint version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "doclint %s\n", version)
		},
	}
}
