package main

import (
	"context"
	"log"
	"os"

	"github.com/agrosuite/agrosync/internal/client/cli"
	"github.com/agrosuite/agrosync/internal/client/config"
	"github.com/agrosuite/agrosync/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewTextLogger(os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
