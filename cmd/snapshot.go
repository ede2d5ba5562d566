package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/naka-gawa/github-snapshot/internal/config"
	"github.com/naka-gawa/github-snapshot/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <username>",
	Short: "Builds the analysis snapshot of a GitHub user",
	Long: `Fetches the profile, repositories, public events and the deep dive of up to
ten original repositories for a GitHub user, and prints the snapshot as JSON,
YAML, or only its summary text.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		output, _ := cmd.Flags().GetString("output")
		if !validOutput(output) {
			fmt.Fprintf(os.Stderr, "Invalid --output %q. Use json, yaml or text.\n", output)
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if noContrib, _ := cmd.Flags().GetBool("no-contributions"); noContrib {
			cfg.Contributions = false
		}
		logger := newLogger(cmd, cfg, "warn")

		snapshotter, err := newSnapshotter(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		snapshot, err := snapshotter.GetSnapshot(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build snapshot: %v\n", err)
			os.Exit(1)
		}

		if err := writeSnapshot(os.Stdout, snapshot, output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write snapshot: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringP("output", "o", "json", "Output format: json, yaml or text")
	snapshotCmd.Flags().Bool("no-contributions", false, "Skip the GraphQL contributions query")
}

func validOutput(format string) bool {
	switch format {
	case "json", "yaml", "text":
		return true
	}
	return false
}

// writeSnapshot encodes snapshot to w in the given format.
func writeSnapshot(w io.Writer, snapshot *domain.Snapshot, format string) error {
	switch format {
	case "json":
		jsonData, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snapshot); err != nil {
			return fmt.Errorf("failed to marshal snapshot to YAML: %w", err)
		}
		return enc.Close()
	case "text":
		_, err := io.WriteString(w, snapshot.SummaryString)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
