package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitydesk/equitydesk/internal/domain"
)

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		KindSQLite: func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		KindBadger: func(t *testing.T) Store {
			s, err := OpenBadger(BadgerOptions{InMemory: true})
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestStore_Trades(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			_, err := s.GetTrade(ctx, 1)
			assert.True(t, errors.Is(err, ErrNotFound))

			now := time.Now().UTC().Truncate(time.Millisecond)
			require.NoError(t, s.PutTrade(ctx, Trade{TradeID: 2, Version: 1, Symbol: "MSFT", Quantity: 5, OrderType: domain.OrderTypeSell, UpdatedAt: now}))
			require.NoError(t, s.PutTrade(ctx, Trade{TradeID: 1, Version: 1, Symbol: "AAPL", Quantity: 10, OrderType: domain.OrderTypeBuy, UpdatedAt: now}))
			require.NoError(t, s.PutTrade(ctx, Trade{TradeID: 1, Version: 2, Symbol: "AAPL", Quantity: 20, OrderType: domain.OrderTypeBuy, Cancelled: true, UpdatedAt: now}))

			got, err := s.GetTrade(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, 2, got.Version)
			assert.Equal(t, int64(20), got.Quantity)
			assert.True(t, got.Cancelled)
			assert.True(t, now.Equal(got.UpdatedAt))

			all, err := s.ListTrades(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, int64(1), all[0].TradeID)
			assert.Equal(t, domain.OrderTypeSell, all[1].OrderType)
		})
	}
}

func TestStore_Journal(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			id := int64(7)
			for i := 0; i < 3; i++ {
				seq, err := s.AppendJournal(ctx, JournalEntry{
					TradeID:    &id,
					Symbol:     "AAPL",
					Quantity:   int64(i + 1),
					ActionType: "INSERT",
					OrderType:  "BUY",
					Accepted:   i == 0,
					ReceivedAt: time.Now(),
				})
				require.NoError(t, err)
				assert.Equal(t, int64(i+1), seq)
			}
			_, err := s.AppendJournal(ctx, JournalEntry{Symbol: "AAPL", Message: "tradeID is required", ReceivedAt: time.Now()})
			require.NoError(t, err)

			entries, err := s.ListJournal(ctx, 2)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, int64(4), entries[0].Seq)
			assert.Nil(t, entries[0].TradeID)
			assert.Equal(t, "tradeID is required", entries[0].Message)
			assert.Equal(t, int64(3), entries[1].Seq)
			require.NotNil(t, entries[1].TradeID)
			assert.Equal(t, int64(7), *entries[1].TradeID)

			all, err := s.ListJournal(ctx, 0)
			require.NoError(t, err)
			assert.Len(t, all, 4)
			assert.True(t, all[3].Accepted)
		})
	}
}

func TestTrade_SignedQuantity(t *testing.T) {
	assert.Equal(t, int64(10), Trade{Quantity: 10, OrderType: domain.OrderTypeBuy}.SignedQuantity())
	assert.Equal(t, int64(-10), Trade{Quantity: 10, OrderType: domain.OrderTypeSell}.SignedQuantity())
	assert.Zero(t, Trade{Quantity: 10, OrderType: domain.OrderTypeBuy, Cancelled: true}.SignedQuantity())
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open(Options{Kind: "postgres"})
	assert.Error(t, err)
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}
