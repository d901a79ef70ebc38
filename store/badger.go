package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

type BadgerStore struct {
	db   *badger.DB
	opts Options
}

func NewBadgerStore(db *badger.DB, opts Options) *BadgerStore {
	return &BadgerStore{db: db, opts: opts}
}

// prefix is "{table}/". Items are stored under "{table}/{item key}" so a table
// is one contiguous key range, iterated in lexicographical key order.
func (s *BadgerStore) prefix() []byte {
	return []byte(s.opts.Table + "/")
}

func (s *BadgerStore) itemKey(key string) []byte {
	return append(s.prefix(), key...)
}

func (s *BadgerStore) PutItem(ctx context.Context, item Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := item.key(s.opts.KeyAttribute)
	if err != nil {
		return err
	}
	value, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.itemKey(key), value)
	})
}

// Scan reads one page of the table with a prefix iterator.
// A page resumes by seeking to the last key of the previous one and skipping it.
func (s *BadgerStore) Scan(ctx context.Context, input ScanInput) (ScanOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	prefix := s.prefix()
	out := ScanOutput{Items: make([]Item, 0, limit)}

	err := s.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		seek := prefix
		if input.ExclusiveStartKey != "" {
			seek = s.itemKey(input.ExclusiveStartKey)
		}
		it.Seek(seek)
		if input.ExclusiveStartKey != "" && it.ValidForPrefix(prefix) && bytes.Equal(it.Item().Key(), seek) {
			it.Next()
		}

		var lastKey string
		for ; it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(out.Items) == limit {
				out.LastEvaluatedKey = lastKey
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			err := item.Value(func(value []byte) error {
				var decoded Item
				if err := json.Unmarshal(value, &decoded); err != nil {
					return fmt.Errorf("unmarshal item %q: %w", lastKey, err)
				}
				out.Items = append(out.Items, decoded)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ScanOutput{}, err
	}
	return out, nil
}

func (s *BadgerStore) ScanAll(ctx context.Context) ([]Item, error) {
	return ScanAll(ctx, s, s.opts.pageSize())
}
