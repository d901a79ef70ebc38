package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/putto11262002/guestbook/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend interface {
	store.Store
	store.Scanner
}

// openBackend returns a constructor of stores sharing one underlying database.
type openBackend func(t *testing.T) func(opts store.Options) backend

func newItem(id, text string, ts int64) store.Item {
	return store.Item{
		"id":   store.String(id),
		"text": store.String(text),
		"ts":   store.Number(ts),
	}
}

func options(table string) store.Options {
	return store.Options{Table: table, KeyAttribute: "id"}
}

func seedItems(t *testing.T, s store.Store, n int) []store.Item {
	items := make([]store.Item, 0, n)
	for i := 0; i < n; i++ {
		item := newItem(fmt.Sprintf("id-%d", i), fmt.Sprintf("text %d", i), int64(1700000000+i))
		require.NoError(t, s.PutItem(context.Background(), item))
		items = append(items, item)
	}
	return items
}

func testBackend(t *testing.T, open openBackend) {
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		s := open(t)(options("messages"))
		items, err := s.ScanAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("put then scan all", func(t *testing.T) {
		s := open(t)(options("messages"))
		seeded := seedItems(t, s, 3)

		items, err := s.ScanAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, seeded, items)
	})

	t.Run("put replaces item with same key", func(t *testing.T) {
		s := open(t)(options("messages"))
		require.NoError(t, s.PutItem(ctx, newItem("a", "first", 1)))
		require.NoError(t, s.PutItem(ctx, newItem("a", "second", 2)))

		items, err := s.ScanAll(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, newItem("a", "second", 2), items[0])
	})

	t.Run("put rejects item without key", func(t *testing.T) {
		s := open(t)(options("messages"))
		err := s.PutItem(ctx, store.Item{"text": store.String("no id")})
		assert.ErrorIs(t, err, store.ErrMissingKey)

		err = s.PutItem(ctx, store.Item{"id": store.Number(1)})
		assert.ErrorIs(t, err, store.ErrMissingKey)
	})

	t.Run("scan all reads every page", func(t *testing.T) {
		opts := options("messages")
		opts.PageSize = 2
		s := open(t)(opts)
		seeded := seedItems(t, s, 5)

		items, err := s.ScanAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, seeded, items)
	})

	t.Run("scan pages", func(t *testing.T) {
		s := open(t)(options("messages"))
		seeded := seedItems(t, s, 5)

		var pages [][]store.Item
		var startKey string
		for {
			out, err := s.Scan(ctx, store.ScanInput{ExclusiveStartKey: startKey, Limit: 2})
			require.NoError(t, err)
			pages = append(pages, out.Items)
			if out.LastEvaluatedKey == "" {
				break
			}
			require.Less(t, len(pages), 10, "scan does not terminate")
			startKey = out.LastEvaluatedKey
		}

		require.Len(t, pages, 3)
		assert.Len(t, pages[0], 2)
		assert.Len(t, pages[1], 2)
		assert.Len(t, pages[2], 1)

		var all []store.Item
		for _, p := range pages {
			all = append(all, p...)
		}
		assert.ElementsMatch(t, seeded, all)
	})

	t.Run("tables are isolated", func(t *testing.T) {
		newStore := open(t)
		guestbook := newStore(options("guestbook"))
		other := newStore(options("other"))

		require.NoError(t, guestbook.PutItem(ctx, newItem("a", "guestbook", 1)))
		require.NoError(t, other.PutItem(ctx, newItem("a", "other", 1)))
		require.NoError(t, other.PutItem(ctx, newItem("b", "other", 2)))

		items, err := guestbook.ScanAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []store.Item{newItem("a", "guestbook", 1)}, items)

		items, err = other.ScanAll(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}
