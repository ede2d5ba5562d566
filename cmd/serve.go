package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/naka-gawa/github-snapshot/internal/config"
	"github.com/naka-gawa/github-snapshot/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves snapshots over HTTP",
	Long:  `Starts an HTTP server answering GET /api/github/:username with the snapshot as JSON.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		logger := newLogger(cmd, cfg, cfg.LogLevel)

		snapshotter, err := newSnapshotter(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		gin.SetMode(gin.ReleaseMode)
		if err := server.Run(ctx, cfg.Addr, server.NewRouter(snapshotter, logger), logger); err != nil {
			logger.WithError(err).Error("Server failed")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (defaults to GHSNAP_ADDR or :8080)")
}
