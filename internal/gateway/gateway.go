// Package gateway adapts the guestbook service to API Gateway HTTP API
// (payload format 2.0) events delivered to a Lambda function.
package gateway

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/putto11262002/guestbook/core"
)

type Handler struct {
	service *core.Service
	logger  *slog.Logger
}

// NewHandler wraps a service built once per process and shared by every invocation.
func NewHandler(service *core.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle never returns an error: failures are reported to the client as responses.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			h.logger.Debug("undecodable body", slog.String("error", err.Error()))
			return toEvent(core.NewTextResponse(http.StatusBadRequest, core.ErrInvalidMessage.Error())), nil
		}
		body = string(decoded)
	}

	res := h.service.Handle(ctx, core.Request{
		Method: event.RequestContext.HTTP.Method,
		Body:   body,
	})
	return toEvent(res), nil
}

func toEvent(res core.Response) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: res.StatusCode,
		Headers:    res.Headers,
		Body:       res.Body,
	}
}
