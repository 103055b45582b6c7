package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/crosscheck/internal/api"
	"github.com/ppiankov/crosscheck/internal/orchestrate"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification HTTP API",
	Long: `Serve exposes the verification pipeline over HTTP:

  POST /api/v1/verify   {"claim_id", "claim_text", "context"} -> VerificationResult
  GET  /health          liveness and configured providers
  GET  /metrics         Prometheus metrics

The process refuses to start with invalid configuration; verification
requests never see a half-configured pipeline.

Example:
  crosscheck serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	orchestrator, err := orchestrate.New(cfg)
	if err != nil {
		return err
	}

	if verbose {
		probeCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		for id, ok := range orchestrator.ProbeProviders(probeCtx) {
			status := "available"
			if !ok {
				status = "UNAVAILABLE"
			}
			fmt.Fprintf(os.Stderr, "Provider %s: %s\n", id, status)
		}
		cancel()
	}

	server, err := api.NewServer(orchestrator)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
	return server.Run(cfg.Server.Addr)
}
