// Package store persists the trade ledger and the instruction journal.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/equitydesk/equitydesk/internal/domain"
)

var ErrNotFound = errors.New("store: not found")

// Trade is the latest version of a trade in the ledger.
type Trade struct {
	TradeID   int64            `json:"tradeId"`
	Version   int              `json:"version"`
	Symbol    string           `json:"symbol"`
	Quantity  int64            `json:"quantity"`
	OrderType domain.OrderType `json:"orderType"`
	Cancelled bool             `json:"cancelled"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// SignedQuantity is the trade's contribution to its symbol's position.
func (t Trade) SignedQuantity() int64 {
	if t.Cancelled {
		return 0
	}
	return t.OrderType.Sign() * t.Quantity
}

// JournalEntry records one received instruction, accepted or not.
type JournalEntry struct {
	Seq        int64     `json:"seq"`
	OrderID    string    `json:"orderId,omitempty"`
	TradeID    *int64    `json:"tradeId"`
	Symbol     string    `json:"symbol"`
	Quantity   int64     `json:"quantity"`
	ActionType string    `json:"actionType"`
	OrderType  string    `json:"orderType"`
	Accepted   bool      `json:"accepted"`
	Message    string    `json:"message,omitempty"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Store is implemented by the sqlite and badger backends.
type Store interface {
	// GetTrade returns ErrNotFound for an unknown trade.
	GetTrade(ctx context.Context, tradeID int64) (Trade, error)
	PutTrade(ctx context.Context, t Trade) error
	ListTrades(ctx context.Context) ([]Trade, error)

	// AppendJournal assigns the entry's sequence number and returns it.
	AppendJournal(ctx context.Context, e JournalEntry) (int64, error)
	// ListJournal returns up to limit entries, newest first.
	ListJournal(ctx context.Context, limit int) ([]JournalEntry, error)

	Close() error
}

const (
	KindSQLite = "sqlite"
	KindBadger = "badger"
)

// Options selects and locates a backend.
type Options struct {
	Kind      string
	DBPath    string
	BadgerDir string
	InMemory  bool // badger only
}

func Open(opts Options) (Store, error) {
	switch opts.Kind {
	case "", KindSQLite:
		return OpenSQLite(opts.DBPath)
	case KindBadger:
		return OpenBadger(BadgerOptions{Path: opts.BadgerDir, InMemory: opts.InMemory})
	default:
		return nil, fmt.Errorf("unknown store kind %q", opts.Kind)
	}
}

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultJournalLimit
	}
	if limit > maxJournalLimit {
		return maxJournalLimit
	}
	return limit
}
