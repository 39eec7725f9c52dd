package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/mgichure/EMIS/internal/client/cli"
	"github.com/mgichure/EMIS/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg, cli.NewDefaultLogger())
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Run(ctx)
}
