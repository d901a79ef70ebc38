package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidStartKey is returned when a scan resumes from a key that is not in the table.
var ErrInvalidStartKey = errors.New("invalid exclusive start key")

type SQLiteStore struct {
	db   *sql.DB
	opts Options
}

func NewSQLiteStore(db *sql.DB, opts Options) *SQLiteStore {
	return &SQLiteStore{
		db:   db,
		opts: opts,
	}
}

func (s *SQLiteStore) PutItem(ctx context.Context, item Item) error {
	key, err := item.key(s.opts.KeyAttribute)
	if err != nil {
		return err
	}

	attributes, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO items (table_name, item_key, attributes) VALUES (@table_name, @item_key, @attributes)
		ON CONFLICT (table_name, item_key) DO UPDATE SET attributes = excluded.attributes`,
		sql.Named("table_name", s.opts.Table),
		sql.Named("item_key", key),
		sql.Named("attributes", string(attributes)))
	if err != nil {
		return fmt.Errorf("ExecContext(insert items): %w", err)
	}

	return nil
}

// Scan reads one page of the table in insertion order.
func (s *SQLiteStore) Scan(ctx context.Context, input ScanInput) (ScanOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var after int64
	if input.ExclusiveStartKey != "" {
		row := s.db.QueryRowContext(ctx,
			"SELECT seq FROM items WHERE table_name = @table_name AND item_key = @item_key",
			sql.Named("table_name", s.opts.Table), sql.Named("item_key", input.ExclusiveStartKey))
		if err := row.Scan(&after); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ScanOutput{}, ErrInvalidStartKey
			}
			return ScanOutput{}, fmt.Errorf("row.Scan(start key): %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT item_key, attributes FROM items
		WHERE table_name = @table_name AND seq > @after
		ORDER BY seq LIMIT @limit`,
		sql.Named("table_name", s.opts.Table),
		sql.Named("after", after),
		sql.Named("limit", limit))
	if err != nil {
		return ScanOutput{}, fmt.Errorf("QueryContext: %w", err)
	}
	defer rows.Close()

	out := ScanOutput{Items: make([]Item, 0, limit)}
	var lastKey string
	for rows.Next() {
		var attributes string
		if err := rows.Scan(&lastKey, &attributes); err != nil {
			return ScanOutput{}, fmt.Errorf("rows.Scan: %w", err)
		}
		var item Item
		if err := json.Unmarshal([]byte(attributes), &item); err != nil {
			return ScanOutput{}, fmt.Errorf("unmarshal item %q: %w", lastKey, err)
		}
		out.Items = append(out.Items, item)
	}
	if err := rows.Err(); err != nil {
		return ScanOutput{}, fmt.Errorf("rows.Err: %w", err)
	}

	if len(out.Items) == limit {
		out.LastEvaluatedKey = lastKey
	}
	return out, nil
}

func (s *SQLiteStore) ScanAll(ctx context.Context) ([]Item, error) {
	return ScanAll(ctx, s, s.opts.pageSize())
}
