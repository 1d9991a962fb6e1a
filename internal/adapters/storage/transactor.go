package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/uptrace/bun"
)

// ErrNoDatabase is returned when a bun backed component is used without a *bun.DB.
var ErrNoDatabase = errors.New("storage: database not configured")

// Transactor runs fn inside a single transaction. Repositories taking part in
// the transaction must resolve their connection with Conn(ctx, db).
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// ContextWithTx stores tx on ctx.
func ContextWithTx(ctx context.Context, tx bun.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction opened by a BunTransactor, if any.
func TxFromContext(ctx context.Context) (bun.Tx, bool) {
	if ctx == nil {
		return bun.Tx{}, false
	}
	tx, ok := ctx.Value(txKey{}).(bun.Tx)
	return tx, ok
}

// Conn returns the transaction carried by ctx, or db when there is none.
func Conn(ctx context.Context, db bun.IDB) bun.IDB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}

// BunTransactor opens bun transactions. Nested calls join the outer transaction.
type BunTransactor struct {
	db *bun.DB
}

func NewBunTransactor(db *bun.DB) *BunTransactor {
	return &BunTransactor{db: db}
}

func (t *BunTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	if t == nil || t.db == nil {
		return ErrNoDatabase
	}
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}
	return t.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ContextWithTx(ctx, tx))
	})
}

// NoOpTransactor runs fn directly with no rollback. Services fall back to it
// when nothing else is configured.
type NoOpTransactor struct{}

func NewNoOpTransactor() Transactor {
	return NoOpTransactor{}
}

func (NoOpTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Snapshotter is implemented by in-memory repositories. Snapshot copies the
// current state and returns a func that puts it back.
type Snapshotter interface {
	Snapshot() (restore func())
}

type memoryTxKey struct{}

// MemoryTransactor gives in-memory repositories all-or-nothing writes. Every
// registered store is snapshotted before fn and restored when fn fails.
// Transactions are serialised; nested calls join the outer one.
type MemoryTransactor struct {
	mu     sync.Mutex
	stores []Snapshotter
}

func NewMemoryTransactor(stores ...Snapshotter) *MemoryTransactor {
	return &MemoryTransactor{stores: slices.DeleteFunc(slices.Clone(stores), func(s Snapshotter) bool { return s == nil })}
}

func (t *MemoryTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return nil
	}
	if ctx.Value(memoryTxKey{}) != nil {
		return fn(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	restores := make([]func(), 0, len(t.stores))
	for _, store := range t.stores {
		restores = append(restores, store.Snapshot())
	}
	if err := fn(context.WithValue(ctx, memoryTxKey{}, t)); err != nil {
		for _, restore := range slices.Backward(restores) {
			restore()
		}
		return err
	}
	return nil
}
