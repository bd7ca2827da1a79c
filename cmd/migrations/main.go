// Command migrations applies the embedded store migrations against the
// configured backend and exits, without starting the engine.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/blocktreedb/chainvalidator/internal/store"
)

var config struct {
	Store store.Config `group:"store" namespace:"store"`
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if _, err := flags.Parse(&config); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse arguments", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(ctx, config.Store); err != nil {
		logger.Fatal("migration run failed", zap.Error(err))
	}
	logger.Info("migrations applied successfully")
}
