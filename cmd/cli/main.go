package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ndvals/notably/internal/buildinfo"
	"github.com/ndvals/notably/internal/client/cli"
	"github.com/ndvals/notably/internal/client/config"
	"github.com/ndvals/notably/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	app := cli.NewApp(cfg, logger)
	app.Run(ctx)

}
