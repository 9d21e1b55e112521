package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/equitydesk/equitydesk/internal/domain"
)

// SQLiteStore keeps the ledger in a single sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite：单连接更稳定
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`
CREATE TABLE IF NOT EXISTS trades (
  trade_id INTEGER PRIMARY KEY,
  version INTEGER NOT NULL,
  symbol TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  order_type TEXT NOT NULL,
  cancelled INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT NOT NULL
);`,
		`
CREATE TABLE IF NOT EXISTS journal (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id TEXT,
  trade_id INTEGER,
  symbol TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  action_type TEXT NOT NULL,
  order_type TEXT NOT NULL,
  accepted INTEGER NOT NULL,
  message TEXT,
  received_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetTrade(ctx context.Context, tradeID int64) (Trade, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT trade_id, version, symbol, quantity, order_type, cancelled, updated_at
FROM trades
WHERE trade_id=?
`, tradeID)
	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Trade{}, ErrNotFound
	}
	if err != nil {
		return Trade{}, fmt.Errorf("get trade %d: %w", tradeID, err)
	}
	return t, nil
}

func (s *SQLiteStore) PutTrade(ctx context.Context, t Trade) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO trades (trade_id, version, symbol, quantity, order_type, cancelled, updated_at)
VALUES (?,?,?,?,?,?,?)
ON CONFLICT(trade_id) DO UPDATE SET
  version=excluded.version,
  symbol=excluded.symbol,
  quantity=excluded.quantity,
  order_type=excluded.order_type,
  cancelled=excluded.cancelled,
  updated_at=excluded.updated_at
`, t.TradeID, t.Version, t.Symbol, t.Quantity, string(t.OrderType), boolToInt(t.Cancelled), t.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put trade %d: %w", t.TradeID, err)
	}
	return nil
}

func (s *SQLiteStore) ListTrades(ctx context.Context) ([]Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT trade_id, version, symbol, quantity, order_type, cancelled, updated_at
FROM trades
ORDER BY trade_id
`)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AppendJournal(ctx context.Context, e JournalEntry) (int64, error) {
	var tradeID sql.NullInt64
	if e.TradeID != nil {
		tradeID = sql.NullInt64{Int64: *e.TradeID, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO journal (order_id, trade_id, symbol, quantity, action_type, order_type, accepted, message, received_at)
VALUES (?,?,?,?,?,?,?,?,?)
`, e.OrderID, tradeID, e.Symbol, e.Quantity, e.ActionType, e.OrderType, boolToInt(e.Accepted), e.Message, e.ReceivedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("append journal: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) ListJournal(ctx context.Context, limit int) ([]JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT seq, order_id, trade_id, symbol, quantity, action_type, order_type, accepted, message, received_at
FROM journal
ORDER BY seq DESC
LIMIT ?
`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var (
			e        JournalEntry
			orderID  sql.NullString
			tradeID  sql.NullInt64
			accepted int
			message  sql.NullString
			ts       string
		)
		if err := rows.Scan(&e.Seq, &orderID, &tradeID, &e.Symbol, &e.Quantity, &e.ActionType, &e.OrderType, &accepted, &message, &ts); err != nil {
			return nil, err
		}
		e.OrderID = orderID.String
		if tradeID.Valid {
			id := tradeID.Int64
			e.TradeID = &id
		}
		e.Accepted = accepted != 0
		e.Message = message.String
		e.ReceivedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (Trade, error) {
	var (
		t         Trade
		orderType string
		cancelled int
		ts        string
	)
	if err := row.Scan(&t.TradeID, &t.Version, &t.Symbol, &t.Quantity, &orderType, &cancelled, &ts); err != nil {
		return Trade{}, err
	}
	t.OrderType = domain.OrderType(orderType)
	t.Cancelled = cancelled != 0
	t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
