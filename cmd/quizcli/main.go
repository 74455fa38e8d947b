package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/letsssgooo/quizServer/internal/client"
	"github.com/letsssgooo/quizServer/internal/frontend"
)

func main() {
	flagAPI := pflag.String("api", "http://localhost:5000", "base URL of the quiz server")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := frontend.New(client.NewHTTPClient(*flagAPI), os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
