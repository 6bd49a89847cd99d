package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kailas-cloud/govrecords/internal/app"
	"github.com/kailas-cloud/govrecords/internal/cli"
	"github.com/kailas-cloud/govrecords/internal/config"
	logpkg "github.com/kailas-cloud/govrecords/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(open).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}

func open(ctx context.Context, configPath string) (*cli.Env, error) {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(config.GetEnv())
	}
	if err != nil {
		return nil, err
	}

	logger, err := logpkg.NewLogger("cli")
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &cli.Env{
		Search:   a.Search,
		Ingest:   a.Ingest,
		Defaults: cfg.Search,
		Session:  a.SessionOptions(logger),
		Close: func() {
			a.Close()
			_ = logger.Sync()
		},
	}, nil
}
