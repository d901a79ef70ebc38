package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/putto11262002/guestbook/core"
	"github.com/putto11262002/guestbook/pkg/router"
)

// Api exposes the guestbook service over HTTP. Every path and method is
// forwarded to the service, which routes by method only.
type Api struct {
	service *core.Service
	mux     *router.Router
	logger  *slog.Logger
}

func NewApi(service *core.Service, logger *slog.Logger) *Api {
	api := &Api{
		service: service,
		mux: router.New(func(err error) router.Error {
			return NewResponseError(err)
		}, router.WithLogger(logger)),
		logger: logger,
	}
	api.mountHandlers()
	return api
}

func (a *Api) Mux() http.Handler {
	return a.mux
}

func (a *Api) mountHandlers() {
	a.mux.Handle("/*", a.DispatchHandler)
	a.mux.MethodNotAllowed(a.DispatchHandler)
}

func (a *Api) DispatchHandler(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}

	res, err := a.service.Dispatch(r.Context(), core.Request{
		Method: r.Method,
		Body:   string(body),
	})
	if err != nil {
		return err
	}

	WriteResponse(w, res, a.logger)
	return nil
}

// WriteResponse copies a service response onto w. The status line is sent
// before the body, so a failed body write can only be logged.
func WriteResponse(w http.ResponseWriter, res core.Response, logger *slog.Logger) {
	for k, v := range res.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(res.StatusCode)
	if _, err := io.WriteString(w, res.Body); err != nil {
		logger.Warn("write response body", slog.String("error", err.Error()), slog.Int("status", res.StatusCode))
	}
}
