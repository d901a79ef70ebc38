package core

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
)

// Request is one inbound HTTP-style request. The path is not used for routing.
type Request struct {
	Method string
	Body   string
}

// Response is one outbound HTTP-style response.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

// Headers returns the fixed header set carried by every response.
func Headers() map[string]string {
	return maps.Clone(corsHeaders)
}

func NewResponse(statusCode int, body string) Response {
	return Response{
		StatusCode: statusCode,
		Headers:    Headers(),
		Body:       body,
	}
}

// NewJsonResponse encodes v as the response body.
func NewJsonResponse(statusCode int, v interface{}) (Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Response{}, fmt.Errorf("encoding response: %w", err)
	}
	return NewResponse(statusCode, string(body)), nil
}

// NewTextResponse returns a response whose body is msg encoded as a JSON string.
func NewTextResponse(statusCode int, msg string) Response {
	body, _ := json.Marshal(msg)
	return NewResponse(statusCode, string(body))
}

// InternalError converts a failure into the 500 response exposed to clients.
func InternalError(err error) Response {
	return NewTextResponse(http.StatusInternalServerError, "internal error: "+err.Error())
}
