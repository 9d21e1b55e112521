package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/equitydesk/equitydesk/internal/tui"
	"github.com/equitydesk/equitydesk/internal/views"
	"github.com/equitydesk/equitydesk/pkg/logger"
)

var tuiRoute string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the terminal UI (default command)",
	Long: `Start the interactive terminal UI.

Positions screen:  r refresh, o/enter execute order, q quit
Order screen:      tab/shift+tab move, ←/→ change action/side,
                   enter (last field) or ctrl+s submit, ctrl+r reset, esc back

Logs go to the configured log file only.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiRoute, "route", views.RoutePositions, "initial route (/positions or /order-execution)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg, false); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	router := views.NewRouter()
	if tuiRoute != "" {
		router.Navigate(tuiRoute)
	}
	app := tui.New(tui.Options{
		Service:       newPositionsService(cfg),
		Router:        router,
		Fallback:      fallbackPolicy(cfg),
		RedirectDelay: cfg.UI.RedirectDelay,
	})
	logger.Infof("tui started: api=%s fallback=%s", cfg.API.BaseURL, cfg.UI.PositionsFallback)
	return tui.Run(ctx, app)
}
