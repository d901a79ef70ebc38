package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	guestbook "github.com/putto11262002/guestbook/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	defer stop()

	app, err := guestbook.New(ctx, nil)
	if err != nil {
		failed(1, "failed to start: %v\n", err)
	}

	if err := app.Start(); err != nil {
		failed(1, "server error: %v\n", err)
	}
}

func failed(code int, s string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, s, args...)
	os.Exit(code)
}
