package core

import (
	"cmp"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/putto11262002/guestbook/store"
	"github.com/samber/lo"
)

// StatusCreated is the status reported in the body of a successful create.
const StatusCreated = "sucesso"

var validate = validator.New()

// Service handles guestbook requests against a message store.
// It holds no state between requests and is safe for concurrent use.
type Service struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

type ServiceOption func(*Service)

// WithClock replaces the clock used to stamp new messages.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator replaces the generator of message ids.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		s.newID = newID
	}
}

func NewService(store store.Store, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle dispatches the request and turns any internal failure into a 500 response.
func (s *Service) Handle(ctx context.Context, req Request) Response {
	res, err := s.Dispatch(ctx, req)
	if err != nil {
		s.logger.Error(err.Error(), slog.String("method", req.Method))
		return InternalError(err)
	}
	return res
}

// Dispatch routes the request by its method. The error is only set for
// internal failures; invalid input and unsupported methods are responses.
func (s *Service) Dispatch(ctx context.Context, req Request) (Response, error) {
	s.logger.Info("request received", slog.String("method", req.Method))

	switch strings.ToUpper(req.Method) {
	case http.MethodPost:
		return s.Create(ctx, req.Body)
	case http.MethodGet:
		return s.List(ctx)
	case http.MethodOptions:
		return s.Preflight(), nil
	default:
		return NewTextResponse(http.StatusMethodNotAllowed, ErrMethodNotAllowed.Error()), nil
	}
}

// Create stores a new message built from body.
func (s *Service) Create(ctx context.Context, body string) (Response, error) {
	payload, err := decodeCreateMessageRequest(body)
	if err != nil {
		s.logger.Debug("rejected message", slog.String("reason", err.Error()))
		return NewTextResponse(http.StatusBadRequest, ErrInvalidMessage.Error()), nil
	}

	message := Message{
		ID:        s.newID(),
		Text:      payload.Message,
		CreatedAt: s.now().Unix(),
	}
	if err := s.store.PutItem(ctx, message.Item()); err != nil {
		return Response{}, &StoreError{Op: "put message", Err: err}
	}

	s.logger.Info("message saved", slog.String("message_id", message.ID))
	return NewJsonResponse(http.StatusCreated, CreateMessageResponse{Status: StatusCreated})
}

// List returns every stored message, oldest first.
func (s *Service) List(ctx context.Context) (Response, error) {
	messages, err := s.Messages(ctx)
	if err != nil {
		return Response{}, err
	}

	s.logger.Info("messages found", slog.Int("count", len(messages)))
	return NewJsonResponse(http.StatusOK, lo.Map(messages, func(m Message, _ int) MessageResponse {
		return NewMessageResponse(m)
	}))
}

// Messages scans the store and orders the messages by timestamp.
// Messages sharing a timestamp are ordered by id.
func (s *Service) Messages(ctx context.Context) ([]Message, error) {
	items, err := s.store.ScanAll(ctx)
	if err != nil {
		return nil, &StoreError{Op: "scan messages", Err: err}
	}

	messages := make([]Message, 0, len(items))
	for _, item := range items {
		m, err := MessageFromItem(item)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	slices.SortFunc(messages, func(a, b Message) int {
		return cmp.Or(
			cmp.Compare(a.CreatedAt, b.CreatedAt),
			strings.Compare(a.ID, b.ID),
		)
	})
	return messages, nil
}

// Preflight answers a CORS preflight request.
func (s *Service) Preflight() Response {
	return NewResponse(http.StatusOK, "")
}

func decodeCreateMessageRequest(body string) (CreateMessageRequest, error) {
	var payload CreateMessageRequest
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return payload, err
	}
	if err := validate.Struct(payload); err != nil {
		return payload, err
	}
	return payload, nil
}
