// Command payledger replays a CSV log of client transactions and prints the
// resulting balance of every client as CSV on standard output.
//
// Usage:
//
//	payledger transactions.csv > balances.csv
//	payledger < transactions.csv
//	payledger --config payledger.yaml --summary transactions.csv
//
// Input columns are type,client,tx,amount where type is one of deposit,
// withdrawal, dispute, resolve or chargeback.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/payledger/config"
	"github.com/vadiminshakov/payledger/internal/csvio"
	"github.com/vadiminshakov/payledger/internal/ledger"
	"github.com/vadiminshakov/payledger/internal/logger"
	"github.com/vadiminshakov/payledger/internal/processor"
	"github.com/vadiminshakov/payledger/internal/report"
	"go.uber.org/zap"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	conf, err := config.Get(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, config.ErrUsage) {
			os.Exit(exitUsage)
		}
		os.Exit(exitFailure)
	}

	log, err := logger.New(conf.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, conf, log, os.Stdin, os.Stdout, os.Stderr)
	stop()
	_ = log.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "payledger: %v\n", err)
		os.Exit(exitFailure)
	}
}

func run(ctx context.Context, conf config.Config, log *zap.Logger, stdin io.Reader, stdout, stderr io.Writer) error {
	input := stdin
	if conf.Input != "" {
		f, err := os.Open(conf.Input)
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()
		input = f
	}

	log.Info("Replaying transactions", zap.String("input", inputName(conf.Input)))

	accountant := ledger.NewAccountant(log.Named("ledger"))
	source := csvio.NewReader(input, csvio.WithHeader(conf.Header), csvio.WithTrim(conf.Trim))
	sink := csvio.NewWriter(stdout)

	if err := processor.New(source, sink, accountant, log.Named("processor")).Run(ctx); err != nil {
		log.Error("Replay aborted", zap.Error(err))
		return err
	}

	stats := accountant.Stats()
	log.Info("Replay complete",
		zap.Int("clients", stats.Clients),
		zap.Int("applied", stats.Applied),
		zap.Int("rejected", stats.Rejected),
		zap.Int("locked", stats.Locked))

	if conf.Summary {
		fmt.Fprintln(stderr, report.Render(stats))
	}

	return nil
}

func inputName(path string) string {
	if path == "" {
		return "stdin"
	}
	return path
}
