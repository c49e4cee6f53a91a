// Package csvio reads transactions from and writes client balances to
// comma-separated text.
package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/payledger/internal/domain"
)

var snapshotHeader = []string{"client", "available", "held", "total", "locked"}

// Writer encodes client snapshots as "client,available,held,total,locked" rows.
type Writer struct {
	csv           *csv.Writer
	headerWritten bool
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteSnapshot writes one row, preceded by the header on first use.
func (w *Writer) WriteSnapshot(s domain.Snapshot) error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	row := []string{
		strconv.FormatUint(uint64(s.Client), 10),
		s.Available.String(),
		s.Held.String(),
		s.Total.String(),
		strconv.FormatBool(s.Locked),
	}
	if err := w.csv.Write(row); err != nil {
		return errors.Wrapf(err, "write client %d", s.Client)
	}

	return nil
}

// Flush writes any buffered rows. The header is written even when no
// snapshot was.
func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return errors.Wrap(err, "flush balances")
	}

	return nil
}

func (w *Writer) writeHeader() error {
	if w.headerWritten {
		return nil
	}
	if err := w.csv.Write(snapshotHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	w.headerWritten = true

	return nil
}
