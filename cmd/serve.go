package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/jamboard-api/api"
	"github.com/killallgit/jamboard-api/api/types"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the JamBoard API server with the configured settings.

The server exposes the board over HTTP: sign-in, clip browsing and
editing, comments, analysis and the microphone recorder.

Example:
  jamboard serve
  jamboard serve --port 9090
  jamboard serve --host 0.0.0.0 --port 8080`,
		RunE: runServer,
	}

	cmd.Flags().String("host", "", "server host (overrides config)")
	cmd.Flags().Int("port", 0, "server port (overrides config)")
	return cmd
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	host, _ := cmd.Flags().GetString("host")
	if host == "" {
		host = cfg.Server.Host
	}
	port, _ := cmd.Flags().GetInt("port")
	if !cmd.Flags().Changed("port") {
		port = cfg.Server.Port
	}
	address := fmt.Sprintf("%s:%d", host, port)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close board")
		}
	}()

	if a.media != nil {
		if err := a.media.ValidateBinaries(); err != nil {
			log.Warn().Err(err).Msg("media tools missing, recording and waveforms will fail")
		}
	}

	server := api.NewServer(address, cfg.Server)
	server.SetDependencies(&types.Dependencies{
		Board:   a.board,
		Tokens:  a.tokens,
		DB:      a.db,
		Store:   a.store,
		Media:   a.media,
		Config:  cfg,
		Logger:  log,
		Version: Version,
	})
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Channel to receive server errors
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Info().Str("address", address).Str("version", Version).Msg("server is ready to handle requests")

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	case runErr = <-serverErr:
		log.Error().Err(runErr).Msg("shutting down server")
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server gracefully stopped")
	return runErr
}
