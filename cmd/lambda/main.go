package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	guestbook "github.com/putto11262002/guestbook/app"
	"github.com/putto11262002/guestbook/core"
	"github.com/putto11262002/guestbook/internal/gateway"
)

// The config, logger, store client and service are built once per execution
// environment and reused by every invocation.
func main() {
	ctx := context.Background()

	config, err := guestbook.LoadConfig(guestbook.LambdaMode)
	if err != nil {
		failed("failed to load config: %v\n", err)
	}
	if err := config.Validate(); err != nil {
		failed("invalid config:\n%s", guestbook.FormatValidationErrors(err))
	}

	logger := guestbook.NewLogger(config)

	messageStore, _, err := guestbook.OpenStore(ctx, config, logger)
	if err != nil {
		failed("failed to open store: %v\n", err)
	}

	handler := gateway.NewHandler(core.NewService(messageStore, logger), logger)
	lambda.Start(handler.Handle)
}

func failed(s string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, s, args...)
	os.Exit(1)
}
