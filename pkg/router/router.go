package router

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"reflect"
	"runtime"

	"github.com/go-chi/chi/v5"
)

// Router is a wrapper around chi.Router that provides error handling.
// Handlers can return an error that will then get mapped to an error response.
type Router struct {
	chi.Router
	fallback ErrorMapper
	logger   *slog.Logger
}

// New creates a router that renders handler errors with fallback unless the
// error already is an Error.
func New(fallback ErrorMapper, opts ...RouterOption) *Router {
	router := &Router{
		Router:   chi.NewRouter(),
		fallback: fallback,
		logger:   slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	for _, opt := range opts {
		opt(router)
	}
	return router
}

type RouterOption func(*Router)

func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// HandlerFunc is a function that handles an HTTP request and returns an error.
// When the handler fails to handler to request it should not write anything to the response writer
// instead it should return an error that will be mapped to an error response.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// ErrorMapper is a function that maps go errors to API errors.
type ErrorMapper func(error) Error

// mapError maps a go error to an API error.
// An error that already is an API error is returned as is,
// anything else goes through the fallback mapper.
func (a *Router) mapError(err error) Error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return a.fallback(err)
}

func (a *Router) handleWithErr(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err != nil {
			handlerFn := runtime.FuncForPC(reflect.ValueOf(h).Pointer())
			a.logger.Error(err.Error(), slog.String("handler", handlerFn.Name()))
			resError := a.mapError(err)
			if withHeaders, ok := resError.(HeaderError); ok {
				for k, v := range withHeaders.Headers() {
					w.Header().Set(k, v)
				}
			}
			w.WriteHeader(resError.StatusCode())
			if err := resError.Encode(w); err != nil {
				a.logger.Error("encode error response", slog.String("error", err.Error()))
			}
		}
	}
}

// Handle registers h for every method on pattern.
func (a *Router) Handle(pattern string, h HandlerFunc) {
	a.Router.Handle(pattern, a.handleWithErr(h))
}

// MethodNotAllowed handles methods chi does not know how to route.
func (a *Router) MethodNotAllowed(h HandlerFunc) {
	a.Router.MethodNotAllowed(a.handleWithErr(h))
}
