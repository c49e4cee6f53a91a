package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/payledger/internal/domain"
)

// ErrMalformedRecord is returned for any input row that cannot be decoded.
var ErrMalformedRecord = errors.New("malformed record")

const (
	columnType   = "type"
	columnClient = "client"
	columnTx     = "tx"
	columnAmount = "amount"
)

// defaultColumns is the column order assumed when the input has no header.
var defaultColumns = map[string]int{columnType: 0, columnClient: 1, columnTx: 2, columnAmount: 3}

// Reader decodes transactions from "type,client,tx,amount" rows.
type Reader struct {
	csv     *csv.Reader
	header  bool
	trim    bool
	columns map[string]int
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithHeader sets whether the first row is a header. Defaults to true.
func WithHeader(header bool) ReaderOption {
	return func(r *Reader) {
		r.header = header
	}
}

// WithTrim sets whether whitespace around fields is removed. Defaults to true.
func WithTrim(trim bool) ReaderOption {
	return func(r *Reader) {
		r.trim = trim
	}
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	reader := &Reader{
		csv:    cr,
		header: true,
		trim:   true,
	}
	for _, opt := range opts {
		opt(reader)
	}
	cr.TrimLeadingSpace = reader.trim

	return reader
}

// Read returns the next transaction, or io.EOF when the input is exhausted.
func (r *Reader) Read() (domain.Transaction, error) {
	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			return domain.Transaction{}, err
		}
	}

	record, err := r.csv.Read()
	if err == io.EOF {
		return domain.Transaction{}, io.EOF
	}
	if err != nil {
		return domain.Transaction{}, errors.Wrapf(ErrMalformedRecord, "%s", err)
	}

	return r.decode(record)
}

func (r *Reader) readHeader() error {
	if !r.header {
		r.columns = defaultColumns
		return nil
	}

	record, err := r.csv.Read()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return errors.Wrapf(ErrMalformedRecord, "%s", err)
	}

	columns := make(map[string]int, len(record))
	for i, name := range record {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{columnType, columnClient, columnTx} {
		if _, ok := columns[required]; !ok {
			return r.malformed("header has no %q column", required)
		}
	}
	r.columns = columns

	return nil
}

func (r *Reader) decode(record []string) (domain.Transaction, error) {
	field := func(name string) (string, bool) {
		i, ok := r.columns[name]
		if !ok || i >= len(record) {
			return "", false
		}
		if r.trim {
			return strings.TrimSpace(record[i]), true
		}
		return record[i], true
	}

	tag, ok := field(columnType)
	if !ok {
		return domain.Transaction{}, r.malformed("missing type")
	}
	kind, err := domain.ParseKind(tag)
	if err != nil {
		return domain.Transaction{}, r.malformed("%s", err)
	}

	clientText, ok := field(columnClient)
	if !ok {
		return domain.Transaction{}, r.malformed("missing client")
	}
	client, err := strconv.ParseUint(clientText, 10, 16)
	if err != nil {
		return domain.Transaction{}, r.malformed("client %q: %s", clientText, err)
	}

	txText, ok := field(columnTx)
	if !ok {
		return domain.Transaction{}, r.malformed("missing tx")
	}
	tx, err := strconv.ParseUint(txText, 10, 32)
	if err != nil {
		return domain.Transaction{}, r.malformed("tx %q: %s", txText, err)
	}

	amount, _ := field(columnAmount)
	if !kind.IsDisputeFamily() && amount == "" {
		return domain.Transaction{}, r.malformed("%s without amount", kind)
	}

	return domain.NewTransaction(uint32(tx), uint16(client), kind, amount), nil
}

// malformed wraps ErrMalformedRecord with the line of the last record read.
func (r *Reader) malformed(format string, args ...any) error {
	line, _ := r.csv.FieldPos(0)
	return errors.Wrapf(ErrMalformedRecord, "line %d: "+format, append([]any{line}, args...)...)
}
