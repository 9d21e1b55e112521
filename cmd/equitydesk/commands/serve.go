package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/equitydesk/equitydesk/internal/backend/server"
	"github.com/equitydesk/equitydesk/internal/backend/store"
	"github.com/equitydesk/equitydesk/pkg/logger"
	"github.com/equitydesk/equitydesk/pkg/shutdown"
)

var serveFlags = struct {
	listen string
	store  string
	noSeed bool
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference equity positions backend",
	Long: `Run the HTTP backend the client talks to.

Endpoints:
  GET  /healthz
  GET  /v1/equity-positions/details
  POST /v1/equity-positions/execute
  GET  /v1/equity-positions/orders?limit=N

Example:
  equitydesk serve --listen :44352 --store sqlite`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.store, "store", "", "sqlite or badger (overrides config)")
	serveCmd.Flags().BoolVar(&serveFlags.noSeed, "no-seed", false, "do not seed an empty ledger")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listen != "" {
		cfg.Server.Listen = serveFlags.listen
	}
	if serveFlags.store != "" {
		cfg.Server.Store = serveFlags.store
	}
	if serveFlags.noSeed {
		cfg.Server.Seed = false
	}
	if err := initLogging(cfg, true); err != nil {
		return err
	}

	st, err := store.Open(store.Options{
		Kind:      cfg.Server.Store,
		DBPath:    cfg.Server.DBPath,
		BadgerDir: cfg.Server.BadgerDir,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	srv, err := server.New(server.Config{
		Listen:           cfg.Server.Listen,
		Store:            st,
		Seed:             cfg.Server.Seed,
		ExecuteRateLimit: cfg.Server.ExecuteRateLimit,
	})
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("init server failed: %w", err)
	}

	mgr := shutdown.NewManager()
	mgr.OnShutdown("http", srv.Shutdown)
	mgr.OnShutdown("store", func(ctx context.Context) error { return srv.Close() })

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(stopCh)

	var serveErr error
	select {
	case sig := <-stopCh:
		logger.Infof("received %s, shutting down", sig)
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Errorf("http server error: %v", serveErr)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mgr.Shutdown(ctx)
	return serveErr
}
