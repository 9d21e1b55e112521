package ledger

import (
	"context"
	"fmt"

	"github.com/equitydesk/equitydesk/internal/domain"
	"github.com/equitydesk/equitydesk/internal/services"
)

// Seed inserts one trade per fixture position when the ledger is empty, so a
// fresh backend serves the same book as the offline fixture. It reports
// whether anything was inserted.
func (l *Ledger) Seed(ctx context.Context) (bool, error) {
	trades, err := l.store.ListTrades(ctx)
	if err != nil {
		return false, err
	}
	if len(trades) > 0 {
		return false, nil
	}
	for i, p := range services.MockPositions() {
		id := int64(i + 1)
		side, qty := domain.OrderTypeBuy, p.Quantity
		if p.IsShort() {
			side, qty = domain.OrderTypeSell, -p.Quantity
		}
		res, err := l.Apply(ctx, Instruction{
			TradeID:    &id,
			Symbol:     p.Symbol,
			Quantity:   qty,
			ActionType: string(domain.ActionTypeInsert),
			OrderType:  string(side),
		})
		if err != nil {
			return false, err
		}
		if !res.Success {
			return false, fmt.Errorf("seed %s: %s", p.Symbol, res.Message)
		}
	}
	l.log.Infof("seeded ledger with %d trades", len(services.MockPositions()))
	return true, nil
}
