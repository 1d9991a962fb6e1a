package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned by FindBy when no row matches.
var ErrNotFound = errors.New("storage: record not found")

// FindBy returns the first row of T whose column equals value.
func FindBy[T any](ctx context.Context, db bun.IDB, column string, value any) (*T, error) {
	record := new(T)
	err := Conn(ctx, db).NewSelect().
		Model(record).
		Where("?TableAlias.? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListBy returns every row of T whose column equals value, sorted by order.
func ListBy[T any](ctx context.Context, db bun.IDB, column string, value any, order string) ([]*T, error) {
	records := []*T{}
	query := Conn(ctx, db).NewSelect().
		Model(&records).
		Where("?TableAlias.? = ?", bun.Ident(column), value)
	if order != "" {
		query = query.OrderExpr(order)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

// ListIn returns every row of T whose column is one of values.
func ListIn[T any](ctx context.Context, db bun.IDB, column string, values any, order string) ([]*T, error) {
	records := []*T{}
	query := Conn(ctx, db).NewSelect().
		Model(&records).
		Where("?TableAlias.? IN (?)", bun.Ident(column), bun.In(values))
	if order != "" {
		query = query.OrderExpr(order)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteBy removes every row of T whose column equals value.
func DeleteBy[T any](ctx context.Context, db bun.IDB, column string, value any) error {
	_, err := Conn(ctx, db).NewDelete().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(column), value).
		Exec(ctx)
	return err
}

// DeleteIn removes every row of T whose column is one of values.
func DeleteIn[T any](ctx context.Context, db bun.IDB, column string, values any) error {
	_, err := Conn(ctx, db).NewDelete().
		Model((*T)(nil)).
		Where("? IN (?)", bun.Ident(column), bun.In(values)).
		Exec(ctx)
	return err
}

// InsertAll bulk inserts rows. An empty slice is a no-op.
func InsertAll[T any](ctx context.Context, db bun.IDB, rows []*T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := Conn(ctx, db).NewInsert().Model(&rows).Exec(ctx)
	return err
}

// Upsert inserts record or, when its primary key exists, updates every
// column except the excluded ones.
func Upsert[T any](ctx context.Context, db bun.IDB, record *T, exclude ...string) error {
	conn := Conn(ctx, db)
	exists, err := conn.NewSelect().Model(record).WherePK().Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		_, err = conn.NewInsert().Model(record).Exec(ctx)
		return err
	}
	query := conn.NewUpdate().Model(record).WherePK()
	if len(exclude) > 0 {
		query = query.ExcludeColumn(exclude...)
	}
	_, err = query.Exec(ctx)
	return err
}
