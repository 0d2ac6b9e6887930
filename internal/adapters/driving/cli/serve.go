package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimsight/claimsight/internal/adapters/driving/api"
	"github.com/claimsight/claimsight/internal/adapters/driving/watcher"
	"github.com/claimsight/claimsight/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the claimsight HTTP API. The documents folder is ingested on
startup and, when watching is enabled, re-ingested as new documents
appear.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := bootstrap(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pingProviders(ctx)

	// Index whatever is already in the folder before serving traffic.
	go func() {
		if report, err := ingestService.ProcessFolder(ctx); err != nil {
			logger.Error("startup ingest: %v", err)
		} else {
			logger.Info("startup ingest: %d processed, %d skipped, %d failed",
				report.Processed, report.Skipped, report.Failed)
		}
	}()

	if cfg.Documents.Watch {
		w := watcher.New(cfg.Documents.Folder, ingestService,
			pageExtractor.SupportedExtensions(),
			time.Duration(cfg.Documents.DebounceSeconds)*time.Second)
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("watcher stopped: %v", err)
			}
		}()
	}

	server := api.NewServer(cfg.Server.Addr(), queryService, ingestService, vectorIndex)

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// pingProviders checks provider reachability at startup. Failures are
// reported but not fatal; queries degrade per request instead.
func pingProviders(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := embeddingService.Ping(pingCtx); err != nil {
		logger.Warn("embedding provider unreachable: %v", err)
	}
	if err := llmService.Ping(pingCtx); err != nil {
		logger.Warn("llm provider unreachable: %v", err)
	}
}
