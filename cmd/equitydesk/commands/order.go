package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/equitydesk/equitydesk/internal/views"
)

var orderFlags = struct {
	tradeID    string
	symbol     string
	quantity   string
	actionType string
	orderType  string
}{}

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Submit one order instruction",
	Long: `Fill the order form from flags, validate it and submit it.

Validation errors are printed per field and nothing is sent. A transport
failure falls back to the mock execution path.

Example:
  equitydesk order --trade-id 42 --symbol AAPL --quantity 10 --action INSERT --type BUY`,
	RunE: runOrder,
}

func init() {
	rootCmd.AddCommand(orderCmd)
	f := orderCmd.Flags()
	f.StringVar(&orderFlags.tradeID, "trade-id", "", "trade id")
	f.StringVar(&orderFlags.symbol, "symbol", "", "ticker symbol, 1-5 upper-case letters")
	f.StringVar(&orderFlags.quantity, "quantity", "", "positive integer quantity")
	f.StringVar(&orderFlags.actionType, "action", "", "INSERT, UPDATE or CANCEL")
	f.StringVar(&orderFlags.orderType, "type", "", "BUY or SELL")
}

func runOrder(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg, verbose); err != nil {
		return err
	}

	// 无需跳转：命令行模式下不等待重定向
	view := views.NewOrderExecutionView(newPositionsService(cfg), views.NewRouter(), cfg.UI.RedirectDelay)
	defer view.Close()

	values := map[string]string{
		views.FieldTradeID:    orderFlags.tradeID,
		views.FieldSymbol:     orderFlags.symbol,
		views.FieldQuantity:   orderFlags.quantity,
		views.FieldActionType: strings.ToUpper(orderFlags.actionType),
		views.FieldOrderType:  strings.ToUpper(orderFlags.orderType),
	}
	for field, v := range values {
		if err := view.SetField(field, v); err != nil {
			return err
		}
	}

	return reportOrder(cmd.OutOrStdout(), view, view.Submit(cmd.Context()))
}

func reportOrder(w io.Writer, view *views.OrderExecutionView, submitErr error) error {
	snap := view.Snapshot()
	var verr *views.ValidationError
	if errors.As(submitErr, &verr) {
		for _, field := range views.OrderFields {
			if msg := snap.FieldErrors[field]; msg != "" {
				fmt.Fprintf(w, "  %s: %s\n", field, msg)
			}
		}
		return submitErr
	}
	if submitErr != nil {
		return submitErr
	}
	if !snap.SubmitSuccess {
		return errors.New(snap.SubmitError)
	}
	suffix := ""
	if snap.Mock {
		suffix = " (mock)"
	}
	fmt.Fprintf(w, "Order executed successfully! Order ID: %s%s\n", snap.Result.OrderID, suffix)
	return nil
}
