//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks
package store

import (
	"context"
	"fmt"
)

// DefaultPageSize is the number of items requested per scan page when none is configured.
const DefaultPageSize = 100

// Store is a flat key-value table of items.
type Store interface {
	// PutItem writes the item unconditionally. An existing item with the same key is replaced.
	PutItem(ctx context.Context, item Item) error

	// ScanAll returns every item of the table in no particular order.
	// Paged backends keep reading until no page is left.
	ScanAll(ctx context.Context) ([]Item, error)
}

// Scanner reads a table one page at a time.
type Scanner interface {
	Scan(ctx context.Context, input ScanInput) (ScanOutput, error)
}

type ScanInput struct {
	// ExclusiveStartKey is the key of the last item of the previous page.
	// The zero value starts from the beginning of the table.
	ExclusiveStartKey string
	// Limit is the maximum number of items returned. Zero means DefaultPageSize.
	Limit int
}

type ScanOutput struct {
	Items []Item
	// LastEvaluatedKey is empty when there is nothing left to read.
	LastEvaluatedKey string
}

// Options are shared by every backend.
type Options struct {
	// Table is the name of the table items are written to.
	Table string
	// KeyAttribute names the string attribute that uniquely identifies an item.
	KeyAttribute string
	// PageSize is the scan page size used by ScanAll.
	PageSize int
}

func (o Options) pageSize() int {
	if o.PageSize <= 0 {
		return DefaultPageSize
	}
	return o.PageSize
}

// ScanAll reads every page from s until LastEvaluatedKey comes back empty.
func ScanAll(ctx context.Context, s Scanner, pageSize int) ([]Item, error) {
	items := []Item{}
	var startKey string
	for {
		out, err := s.Scan(ctx, ScanInput{ExclusiveStartKey: startKey, Limit: pageSize})
		if err != nil {
			return nil, fmt.Errorf("scan page after %q: %w", startKey, err)
		}
		items = append(items, out.Items...)
		if out.LastEvaluatedKey == "" {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
