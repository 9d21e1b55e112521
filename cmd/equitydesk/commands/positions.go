package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/equitydesk/equitydesk/internal/views"
)

var positionsJSON bool

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Print the current equity positions",
	Long: `Load the positions once, with the configured fallback, and print them.

Exits non-zero when both the backend call and the fallback fail.`,
	RunE: runPositions,
}

func init() {
	rootCmd.AddCommand(positionsCmd)
	positionsCmd.Flags().BoolVar(&positionsJSON, "json", false, "print JSON instead of a table")
}

func runPositions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg, verbose); err != nil {
		return err
	}

	router := views.NewRouter()
	view := views.NewPositionsView(newPositionsService(cfg), router, fallbackPolicy(cfg))
	defer view.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.API.Timeout+time.Second)
	defer cancel()
	view.Activate(ctx)

	return printPositions(cmd.OutOrStdout(), view, positionsJSON)
}

func printPositions(w io.Writer, view *views.PositionsView, asJSON bool) error {
	snap := view.Snapshot()
	if snap.State == views.StateFailed {
		return errors.New(snap.Error)
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"positions": snap.Positions})
	}
	if len(snap.Positions) == 0 {
		fmt.Fprintln(w, "No positions found")
		return nil
	}
	fmt.Fprintf(w, "%-8s %12s  %s\n", "SYMBOL", "QUANTITY", "SIDE")
	for _, p := range snap.Positions {
		side := "LONG"
		if p.IsShort() {
			side = "SHORT"
		}
		fmt.Fprintf(w, "%-8s %12d  %s\n", view.Key(p), p.Quantity, side)
	}
	return nil
}
