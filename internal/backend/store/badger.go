package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

var (
	tradePrefix   = []byte("trade/")
	journalPrefix = []byte("journal/")
	journalSeqKey = []byte("seq/journal")
)

// BadgerStore keeps trades and journal entries as JSON values under
// trade/ and journal/ key prefixes.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

var _ Store = (*BadgerStore)(nil)

type BadgerOptions struct {
	Path     string
	InMemory bool
}

func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	if !opts.InMemory && strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("badger: path is required")
	}
	bopts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	seq, err := db.GetSequence(journalSeqKey, 100)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

func (s *BadgerStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if s.seq != nil {
		_ = s.seq.Release()
	}
	return s.db.Close()
}

func tradeKey(id int64) []byte {
	return append(append([]byte{}, tradePrefix...), strconv.FormatInt(id, 10)...)
}

func journalKey(seq int64) []byte {
	return append(append([]byte{}, journalPrefix...), fmt.Sprintf("%020d", seq)...)
}

func (s *BadgerStore) GetTrade(ctx context.Context, tradeID int64) (Trade, error) {
	var t Trade
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tradeKey(tradeID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &t)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Trade{}, ErrNotFound
	}
	if err != nil {
		return Trade{}, fmt.Errorf("get trade %d: %w", tradeID, err)
	}
	return t, nil
}

func (s *BadgerStore) PutTrade(ctx context.Context, t Trade) error {
	val, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode trade %d: %w", t.TradeID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tradeKey(t.TradeID), val)
	})
}

func (s *BadgerStore) ListTrades(ctx context.Context) ([]Trade, error) {
	var out []Trade
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = tradePrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var t Trade
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &t)
			}); err != nil {
				return err
			}
			out = append(out, t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return out, nil
}

func (s *BadgerStore) AppendJournal(ctx context.Context, e JournalEntry) (int64, error) {
	n, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("journal sequence: %w", err)
	}
	e.Seq = int64(n) + 1
	val, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("encode journal entry: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(journalKey(e.Seq), val)
	}); err != nil {
		return 0, fmt.Errorf("append journal: %w", err)
	}
	return e.Seq, nil
}

func (s *BadgerStore) ListJournal(ctx context.Context, limit int) ([]JournalEntry, error) {
	limit = normalizeLimit(limit)
	var out []JournalEntry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = journalPrefix
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()
		seek := append(append([]byte{}, journalPrefix...), 0xFF)
		for it.Seek(seek); it.Valid() && len(out) < limit; it.Next() {
			var e JournalEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	return out, nil
}
