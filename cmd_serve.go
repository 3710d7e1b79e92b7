package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	googlemonitoring "github.com/llmgate/promptimprover/googleMonitoring"
	"github.com/llmgate/promptimprover/improver"
	"github.com/llmgate/promptimprover/internal/handlers"
	"github.com/llmgate/promptimprover/keystore"
	"github.com/llmgate/promptimprover/localratelimiter"
	"github.com/llmgate/promptimprover/metrics"
)

const shutdownTimeout = 10 * time.Second

var (
	servePort      int
	serveEphemeral bool
)

// serveCmd runs the web page and its JSON API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prompt improver page and API",
	Long: `Start the HTTP server. It serves the page at /, the improve and
credential endpoints, /health and /metrics.

With --ephemeral the API key lives only in memory and is lost on exit.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveEphemeral, "ephemeral", false, "Keep the API key in memory only")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	credentialsConfig := appConfig.Credentials
	if serveEphemeral {
		credentialsConfig.Backend = "memory"
	}
	store, closeStore, err := keystore.New(ctx, credentialsConfig)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer closeStore()

	generator, err := newGenerator(appConfig.LLM)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	service := improver.NewService(generator, store, newImproverOptions(appConfig.LLM, recorder))

	// Google Monitoring Client
	if appConfig.GoogleService.ProjectId != "" {
		monitoringClient, err := googlemonitoring.NewMonitoringClient(ctx, appConfig.GoogleService.ProjectId,
			appConfig.GoogleService.JsonKey, recorder.Gatherer(), logger.Named("monitoring"))
		if err != nil {
			return fmt.Errorf("failed to create monitoring client: %w", err)
		}
		defer monitoringClient.Close()
		go monitoringClient.Run(ctx, appConfig.GoogleService.PushInterval)
	}

	if !appConfig.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.RouterDeps{
		Improver:       service,
		Store:          store,
		Recorder:       recorder,
		RateLimiter:    localratelimiter.NewRateLimiter(ctx, appConfig.Server.RateLimitPerSec, appConfig.Server.RateLimitBurst),
		Logger:         logger,
		Provider:       appConfig.LLM.Provider,
		Model:          appConfig.LLM.Model,
		AllowedOrigins: appConfig.Server.AllowedOrigins,
	})

	port := appConfig.Server.Port
	if servePort > 0 {
		port = servePort
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.Int("port", port),
			zap.String("provider", appConfig.LLM.Provider),
			zap.String("model", appConfig.LLM.Model),
			zap.String("credentialBackend", credentialsConfig.Backend))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
