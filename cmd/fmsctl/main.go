package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/noah-isme/fms-dashboard-api/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
