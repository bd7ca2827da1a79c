package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"net/http"
	"time"

	"github.com/blocktreedb/chainvalidator/internal/blockreader"
	"github.com/blocktreedb/chainvalidator/internal/chainledger"
	"github.com/blocktreedb/chainvalidator/internal/engine"
	"github.com/blocktreedb/chainvalidator/internal/intake"
	"github.com/blocktreedb/chainvalidator/internal/model"
	"github.com/blocktreedb/chainvalidator/internal/organizer"
	"github.com/blocktreedb/chainvalidator/internal/script"
	"github.com/blocktreedb/chainvalidator/internal/store"
	"github.com/blocktreedb/chainvalidator/internal/tree"
	"github.com/blocktreedb/chainvalidator/internal/validator"
)

var config struct {
	Store       store.Config `group:"store" namespace:"store"`
	MetricsAddr string       `long:"metrics-addr" env:"METRICS_ADDR" description:"address for the /metrics and /healthz endpoints" default:":9090"`
	Network     string       `long:"network" env:"NETWORK" description:"bitcoin network: mainnet, testnet3, regtest, simnet" default:"mainnet"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		logger.Fatal("failed to parse arguments", zap.Error(err))
	}

	db, err := store.Open(ctx, config.Store)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	params, err := networkParams(config.Network)
	if err != nil {
		logger.Fatal("unrecognized network", zap.Error(err))
	}

	e := wireEngine(db, params, logger)
	in := intake.New(db.Queries(), e, logger)
	in.Start(ctx)
	defer in.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              config.MetricsAddr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down http server", zap.Error(err))
		}
	}()

	logger.Info("starting metrics/health server", zap.String("addr", config.MetricsAddr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("http server stopped", zap.Error(err))
	}
}

func networkParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet", "":
		return &chaincfg.MainNetParams, nil
	case "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	default:
		return nil, fmt.Errorf("unrecognized network %q", network)
	}
}

// wireEngine builds the organizer, validator, and entry-point engine on
// top of a transaction executor bound to db, and the branch-deletion
// adapter that drives the tree and chain-ledger packages on a
// consensus rejection.
func wireEngine(db *store.BaseDB, params *chaincfg.Params, logger *zap.Logger) *engine.Engine {
	exec := store.NewTransactionExecutor(db, logger, store.NewQueryCreator(db.Backend))

	org := organizer.New(&organizerExecutor{exec}, logger)
	scripts := script.New(params)
	val := validator.New(&validatorExecutor{exec}, scripts, logger)

	reader := blockreader.New(db.Queries())
	deleter := &branchDeleter{exec: exec, logger: logger}

	return engine.New(db.Queries(), org, val, scripts, reader, deleter, logger)
}

// organizerExecutor adapts a *store.TransactionExecutor[*store.Queries]
// to the organizer package's narrower Executor interface.
type organizerExecutor struct {
	exec *store.TransactionExecutor[*store.Queries]
}

func (e *organizerExecutor) ExecTx(ctx context.Context, txBody func(organizer.Store) error) error {
	return e.exec.ExecTx(ctx, store.WriteTxOpt(), func(q *store.Queries) error {
		return txBody(q)
	})
}

// validatorExecutor adapts a *store.TransactionExecutor[*store.Queries]
// to the validator package's narrower Executor interface.
type validatorExecutor struct {
	exec *store.TransactionExecutor[*store.Queries]
}

func (e *validatorExecutor) ExecTx(ctx context.Context, txBody func(validator.Store) error) error {
	return e.exec.ExecTx(ctx, store.WriteTxOpt(), func(q *store.Queries) error {
		return txBody(q)
	})
}

// branchDeleter implements engine.BranchDeleter: on a consensus
// rejection, it deletes the block's branch from the tree and undoes the
// chain ledger's work and row count for the removed span, all within one
// transaction.
type branchDeleter struct {
	exec   *store.TransactionExecutor[*store.Queries]
	logger *zap.Logger
}

func (d *branchDeleter) DeleteBranch(ctx context.Context, block model.Position) error {
	return d.exec.ExecTx(ctx, store.WriteTxOpt(), func(q *store.Queries) error {
		width, err := tree.Width(ctx, q, block)
		if err != nil {
			return err
		}

		parentHadOtherChildren := false
		if block.PrevBlockID != nil {
			parent, err := q.GetPosition(ctx, *block.PrevBlockID)
			if err != nil {
				return err
			}
			parentWidth, err := tree.Width(ctx, q, parent)
			if err != nil {
				return err
			}
			parentHadOtherChildren = parentWidth > width
		}

		if err := chainledger.Debit(ctx, q, block.SpanLeft, block.Depth); err != nil {
			return err
		}
		// When the parent collapses onto the branch's first column, that
		// column's chain row stays.
		renumberLeft := block.SpanLeft
		if !parentHadOtherChildren {
			renumberLeft++
		}
		if err := chainledger.Renumber(ctx, q, renumberLeft, block.SpanRight); err != nil {
			return err
		}
		if err := tree.DeleteBranch(ctx, q, block.Space, block.Depth, block.SpanLeft, block.SpanRight, parentHadOtherChildren); err != nil {
			return err
		}
		d.logger.Debug("branch deleted",
			zap.Int64("block_id", block.BlockID), zap.Int64("span_left", block.SpanLeft), zap.Int64("span_right", block.SpanRight))
		return nil
	})
}
