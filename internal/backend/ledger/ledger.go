// Package ledger applies order instructions to the trade ledger and derives
// positions from it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/equitydesk/equitydesk/internal/backend/store"
	"github.com/equitydesk/equitydesk/internal/domain"
	"github.com/equitydesk/equitydesk/internal/metrics"
	"github.com/equitydesk/equitydesk/pkg/idgen"
	"github.com/equitydesk/equitydesk/pkg/logger"
)

const acceptedMessage = "Order executed successfully"

// Instruction is the execute request body as received on the wire.
type Instruction struct {
	TradeID    *int64 `json:"tradeID" validate:"required"`
	Symbol     string `json:"symbol" validate:"required,symbol"`
	Quantity   int64  `json:"quantity" validate:"gt=0"`
	ActionType string `json:"actionType" validate:"required,oneof=INSERT UPDATE CANCEL"`
	OrderType  string `json:"orderType" validate:"required,oneof=BUY SELL"`
}

func (in Instruction) normalize() Instruction {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	in.ActionType = strings.ToUpper(strings.TrimSpace(in.ActionType))
	in.OrderType = strings.ToUpper(strings.TrimSpace(in.OrderType))
	return in
}

// Ledger serialises instruction handling over a store.
type Ledger struct {
	store store.Store
	now   func() time.Time
	log   *logrus.Entry

	mu sync.Mutex
}

func New(s store.Store) *Ledger {
	return &Ledger{
		store: s,
		now:   time.Now,
		log:   logger.WithField("component", "ledger"),
	}
}

// rejection is a business rule violation reported as success=false.
type rejection struct{ msg string }

func (r *rejection) Error() string { return r.msg }

func reject(format string, args ...any) error {
	return &rejection{msg: fmt.Sprintf(format, args...)}
}

// Apply validates and applies one instruction and journals it. Business rule
// violations come back as an unsuccessful result; the error is reserved for
// storage failures.
func (l *Ledger) Apply(ctx context.Context, in Instruction) (*domain.ExecuteOrderResult, error) {
	in = in.normalize()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := store.JournalEntry{
		TradeID:    in.TradeID,
		Symbol:     in.Symbol,
		Quantity:   in.Quantity,
		ActionType: in.ActionType,
		OrderType:  in.OrderType,
		ReceivedAt: l.now(),
	}

	err := validateInstruction(in)
	if err == nil {
		err = l.applyLocked(ctx, in)
	}
	var rej *rejection
	switch {
	case err == nil:
		entry.Accepted = true
		entry.OrderID = idgen.OrderID()
		entry.Message = acceptedMessage
	case errors.As(err, &rej):
		entry.Message = rej.msg
	default:
		return nil, err
	}

	if _, jerr := l.store.AppendJournal(ctx, entry); jerr != nil {
		return nil, jerr
	}
	if !entry.Accepted {
		metrics.InstructionsRejected.Add(1)
		l.log.Warnf("instruction rejected: %s", entry.Message)
		return &domain.ExecuteOrderResult{Success: false, Message: entry.Message}, nil
	}
	metrics.InstructionsAccepted.Add(1)
	l.log.Infof("instruction accepted: %s trade=%d %s %d %s orderId=%s",
		in.ActionType, *in.TradeID, in.Symbol, in.Quantity, in.OrderType, entry.OrderID)
	return &domain.ExecuteOrderResult{Success: true, Message: acceptedMessage, OrderID: entry.OrderID}, nil
}

func (l *Ledger) applyLocked(ctx context.Context, in Instruction) error {
	id := *in.TradeID
	existing, err := l.store.GetTrade(ctx, id)
	found := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	switch domain.ActionType(in.ActionType) {
	case domain.ActionTypeInsert:
		if found {
			return reject("trade %d already exists", id)
		}
		return l.store.PutTrade(ctx, store.Trade{
			TradeID:   id,
			Version:   1,
			Symbol:    in.Symbol,
			Quantity:  in.Quantity,
			OrderType: domain.OrderType(in.OrderType),
			UpdatedAt: l.now(),
		})

	case domain.ActionTypeUpdate:
		if err := checkLive(id, existing, found); err != nil {
			return err
		}
		existing.Version++
		existing.Symbol = in.Symbol
		existing.Quantity = in.Quantity
		existing.OrderType = domain.OrderType(in.OrderType)
		existing.UpdatedAt = l.now()
		return l.store.PutTrade(ctx, existing)

	case domain.ActionTypeCancel:
		if err := checkLive(id, existing, found); err != nil {
			return err
		}
		existing.Version++
		existing.Cancelled = true
		existing.UpdatedAt = l.now()
		return l.store.PutTrade(ctx, existing)
	}
	return reject("invalid actionType %q", in.ActionType)
}

func checkLive(id int64, t store.Trade, found bool) error {
	if !found {
		return reject("trade %d not found", id)
	}
	if t.Cancelled {
		return reject("trade %d is cancelled", id)
	}
	return nil
}

// Positions nets every live trade per symbol, ordered by symbol. Flat
// symbols are omitted.
func (l *Ledger) Positions(ctx context.Context) ([]domain.Position, error) {
	trades, err := l.store.ListTrades(ctx)
	if err != nil {
		return nil, err
	}
	net := make(map[string]int64)
	for _, t := range trades {
		if t.Cancelled {
			continue
		}
		net[t.Symbol] += t.SignedQuantity()
	}
	out := make([]domain.Position, 0, len(net))
	for sym, qty := range net {
		if qty == 0 {
			continue
		}
		out = append(out, domain.Position{Symbol: sym, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

// Journal returns the most recent instructions, newest first.
func (l *Ledger) Journal(ctx context.Context, limit int) ([]store.JournalEntry, error) {
	return l.store.ListJournal(ctx, limit)
}
