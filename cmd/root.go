// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/naka-gawa/github-snapshot/internal/config"
	"github.com/naka-gawa/github-snapshot/internal/gateway"
	"github.com/naka-gawa/github-snapshot/internal/logger"
	"github.com/naka-gawa/github-snapshot/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-snapshot",
	Short: "A CLI tool to build an analysis snapshot of a GitHub user.",
	Long: `github-snapshot gathers a GitHub user's public profile, repositories,
recent activity and a deep dive into their most recently updated original
repositories, and condenses everything into a single snapshot with a
plain-text summary suitable for downstream review.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (defaults to LOG_FORMAT)")
}

// newLogger builds the stderr logger. --verbose forces debug, otherwise fallbackLevel applies.
func newLogger(cmd *cobra.Command, cfg config.Config, fallbackLevel string) *logrus.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	format, _ := cmd.Flags().GetString("log-format")
	if format == "" {
		format = cfg.LogFormat
	}
	level := fallbackLevel
	if verbose {
		level = "debug"
	}
	return logger.New(os.Stderr, level, format)
}

// newSnapshotter injects the dependencies of the snapshot pipeline.
func newSnapshotter(cfg config.Config, log *logrus.Logger) (*usecase.Snapshotter, error) {
	githubGateway, err := gateway.NewGitHubGateway(cfg, log)
	if err != nil {
		return nil, err
	}
	return usecase.NewSnapshotter(githubGateway, log, usecase.Options{
		ReadmeLimit:   cfg.ReadmeLimit,
		ExcerptLimit:  cfg.ExcerptLimit,
		Contributions: cfg.Contributions,
	}), nil
}
