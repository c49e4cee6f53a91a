package processor

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/payledger/internal/domain"
	"github.com/vadiminshakov/payledger/internal/ledger"
	"go.uber.org/zap"
)

// Source yields transactions in input order and io.EOF at the end.
type Source interface {
	Read() (domain.Transaction, error)
}

// Sink receives the final balances.
type Sink interface {
	ledger.Sink
	Flush() error
}

// Accounting books transactions and exports balances.
type Accounting interface {
	Apply(tx domain.Transaction) error
	Export(sink ledger.Sink) error
}

// Engine replays one transaction stream.
type Engine struct {
	source     Source
	sink       Sink
	accountant Accounting
	logger     *zap.Logger
}

// New creates an Engine.
func New(source Source, sink Sink, accountant Accounting, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		source:     source,
		sink:       sink,
		accountant: accountant,
		logger:     logger,
	}
}

// Run applies every transaction of the source and then writes all balances
// to the sink. Any returned error voids the run.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("Starting replay")

	read := 0
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Context done, stopping replay", zap.Int("read", read))
			return ctx.Err()
		default:
		}

		tx, err := e.source.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "read transaction")
		}
		read++

		if err := e.accountant.Apply(tx); err != nil {
			return errors.Wrapf(err, "apply transaction %d", tx.ID())
		}
	}

	if err := e.accountant.Export(e.sink); err != nil {
		return errors.Wrap(err, "export balances")
	}
	if err := e.sink.Flush(); err != nil {
		return errors.Wrap(err, "export balances")
	}

	e.logger.Info("Replay finished", zap.Int("read", read))

	return nil
}
