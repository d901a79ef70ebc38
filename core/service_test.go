package core_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/putto11262002/guestbook/core"
	"github.com/putto11262002/guestbook/mocks"
	"github.com/putto11262002/guestbook/pkg/logger"
	"github.com/putto11262002/guestbook/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Unix(1700000000, 0)

func newBadgerStore(t *testing.T) store.Store {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return store.NewBadgerStore(db, store.Options{Table: "guestbook_table", KeyAttribute: core.AttrMessageID})
}

func newService(s store.Store, opts ...core.ServiceOption) *core.Service {
	return core.NewService(s, logger.Discard(), opts...)
}

// sequence returns an id generator yielding ids in order.
func sequence(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func assertHeaders(t *testing.T, res core.Response) {
	t.Helper()
	assert.Equal(t, core.Headers(), res.Headers)
	assert.Equal(t, "*", res.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "application/json", res.Headers["Content-Type"])
}

func TestService_CreateThenList(t *testing.T) {
	ctx := context.Background()
	service := newService(newBadgerStore(t),
		core.WithClock(func() time.Time { return fixedNow }),
		core.WithIDGenerator(sequence("m-1")),
	)

	res := service.Handle(ctx, core.Request{Method: http.MethodPost, Body: `{"message":"hello"}`})
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.JSONEq(t, `{"status":"sucesso"}`, res.Body)
	assertHeaders(t, res)

	res = service.Handle(ctx, core.Request{Method: http.MethodGet})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `[{"message_id":"m-1","message":"hello","timestamp":1700000000}]`, res.Body)
	assertHeaders(t, res)
}

func TestService_CreateIgnoresUnknownFields(t *testing.T) {
	ctx := context.Background()
	service := newService(newBadgerStore(t),
		core.WithClock(func() time.Time { return fixedNow }),
		core.WithIDGenerator(sequence("m-1")),
	)

	res := service.Handle(ctx, core.Request{Method: http.MethodPost, Body: `{"message":"hi","author":"x"}`})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	messages, err := service.Messages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Message{{ID: "m-1", Text: "hi", CreatedAt: 1700000000}}, messages)
}

func TestService_CreateRejectsInvalidBody(t *testing.T) {
	bodies := map[string]string{
		"empty object":  `{}`,
		"empty body":    ``,
		"empty message": `{"message":""}`,
		"not json":      `not json`,
		"number":        `{"message":1}`,
		"null":          `null`,
		"array":         `["hello"]`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			s := mocks.NewMockStore(ctrl)
			service := newService(s)

			res := service.Handle(context.Background(), core.Request{Method: http.MethodPost, Body: body})
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.Equal(t, `"invalid message body"`, res.Body)
			assertHeaders(t, res)
		})
	}
}

func TestService_ListEmpty(t *testing.T) {
	service := newService(newBadgerStore(t))

	res := service.Handle(context.Background(), core.Request{Method: http.MethodGet})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, `[]`, res.Body)
}

func TestService_ListOrdersByTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockStore(ctrl)
	service := newService(s)

	s.EXPECT().ScanAll(gomock.Any()).Return([]store.Item{
		core.Message{ID: "c", Text: "third", CreatedAt: 30}.Item(),
		core.Message{ID: "b", Text: "tie b", CreatedAt: 20}.Item(),
		core.Message{ID: "z", Text: "first", CreatedAt: 10}.Item(),
		core.Message{ID: "a", Text: "tie a", CreatedAt: 20}.Item(),
	}, nil)

	messages, err := service.Messages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Message{
		{ID: "z", Text: "first", CreatedAt: 10},
		{ID: "a", Text: "tie a", CreatedAt: 20},
		{ID: "b", Text: "tie b", CreatedAt: 20},
		{ID: "c", Text: "third", CreatedAt: 30},
	}, messages)
}

func TestService_CreatedMessagesListInOrder(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	service := newService(newBadgerStore(t),
		core.WithClock(func() time.Time { return now }),
		core.WithIDGenerator(sequence("b", "a", "c")),
	)

	for _, text := range []string{"one", "two"} {
		res := service.Handle(ctx, core.Request{Method: http.MethodPost, Body: `{"message":"` + text + `"}`})
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}
	now = now.Add(time.Second)
	res := service.Handle(ctx, core.Request{Method: http.MethodPost, Body: `{"message":"three"}`})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = service.Handle(ctx, core.Request{Method: http.MethodGet})
	assert.JSONEq(t, `[
		{"message_id":"a","message":"two","timestamp":1700000000},
		{"message_id":"b","message":"one","timestamp":1700000000},
		{"message_id":"c","message":"three","timestamp":1700000001}
	]`, res.Body)
}

func TestService_Preflight(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := newService(mocks.NewMockStore(ctrl))

	res := service.Handle(context.Background(), core.Request{Method: http.MethodOptions, Body: `ignored`})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, res.Body)
	assertHeaders(t, res)
}

func TestService_MethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch, "FOO", ""} {
		t.Run(method, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := newService(mocks.NewMockStore(ctrl))

			res := service.Handle(context.Background(), core.Request{Method: method, Body: `{"message":"hi"}`})
			assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
			assert.Equal(t, `"method not allowed"`, res.Body)
			assertHeaders(t, res)
		})
	}
}

func TestService_MethodIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	service := newService(newBadgerStore(t), core.WithIDGenerator(sequence("m-1")))

	res := service.Handle(ctx, core.Request{Method: "post", Body: `{"message":"hi"}`})
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	res = service.Handle(ctx, core.Request{Method: "get"})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res = service.Handle(ctx, core.Request{Method: "options"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestService_StoreFailure(t *testing.T) {
	errUnavailable := errors.New("table unavailable")

	t.Run("put", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mocks.NewMockStore(ctrl)
		service := newService(s)
		s.EXPECT().PutItem(gomock.Any(), gomock.Any()).Return(errUnavailable).Times(2)

		_, err := service.Dispatch(context.Background(), core.Request{Method: http.MethodPost, Body: `{"message":"hi"}`})
		var storeErr *core.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "put message", storeErr.Op)
		assert.ErrorIs(t, err, errUnavailable)

		res := service.Handle(context.Background(), core.Request{Method: http.MethodPost, Body: `{"message":"hi"}`})
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, `"internal error: put message: table unavailable"`, res.Body)
		assertHeaders(t, res)
	})

	t.Run("scan", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mocks.NewMockStore(ctrl)
		service := newService(s)
		s.EXPECT().ScanAll(gomock.Any()).Return(nil, errUnavailable)

		res := service.Handle(context.Background(), core.Request{Method: http.MethodGet})
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
		assert.Equal(t, `"internal error: scan messages: table unavailable"`, res.Body)
		assertHeaders(t, res)
	})
}

func TestService_MalformedStoredItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockStore(ctrl)
	service := newService(s)
	s.EXPECT().ScanAll(gomock.Any()).Return([]store.Item{
		{core.AttrMessageID: store.String("a"), core.AttrMessage: store.String("no timestamp")},
	}, nil)

	res := service.Handle(context.Background(), core.Request{Method: http.MethodGet})
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, res.Body, "internal error: ")
}

func TestService_DefaultIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	service := newService(newBadgerStore(t))

	for range 2 {
		res := service.Handle(ctx, core.Request{Method: http.MethodPost, Body: `{"message":"same text"}`})
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}

	messages, err := service.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.NotEmpty(t, messages[0].ID)
	assert.NotEmpty(t, messages[1].ID)
	assert.NotEqual(t, messages[0].ID, messages[1].ID)
	assert.Positive(t, messages[0].CreatedAt)
}
