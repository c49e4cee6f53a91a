// Package domain defines the value types the ledger replays: amounts,
// transactions and client balances.
package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnknownKind is returned for a transaction type tag that is not recognised.
var ErrUnknownKind = errors.New("unknown transaction type")

// Kind is the type of a transaction.
type Kind int

const (
	KindDeposit Kind = iota
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

// kind tags as they appear in the input stream
const (
	kindTagDeposit    = "deposit"
	kindTagWithdrawal = "withdrawal"
	kindTagDispute    = "dispute"
	kindTagResolve    = "resolve"
	kindTagChargeback = "chargeback"
)

// ParseKind maps an input tag to a Kind. Matching is case-sensitive.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case kindTagDeposit:
		return KindDeposit, nil
	case kindTagWithdrawal:
		return KindWithdrawal, nil
	case kindTagDispute:
		return KindDispute, nil
	case kindTagResolve:
		return KindResolve, nil
	case kindTagChargeback:
		return KindChargeback, nil
	}

	return 0, errors.Wrapf(ErrUnknownKind, "%q", tag)
}

// String returns the input tag of the kind.
func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return kindTagDeposit
	case KindWithdrawal:
		return kindTagWithdrawal
	case KindDispute:
		return kindTagDispute
	case KindResolve:
		return kindTagResolve
	case KindChargeback:
		return kindTagChargeback
	default:
		return "unknown"
	}
}

// IsDisputeFamily reports whether the kind references an earlier transaction
// instead of carrying its own amount.
func (k Kind) IsDisputeFamily() bool {
	return k == KindDispute || k == KindResolve || k == KindChargeback
}

// Transaction is a single input event. It is never modified after decoding.
type Transaction struct {
	id     uint32
	client uint16
	kind   Kind
	amount string
}

// NewTransaction creates a transaction. amount is the raw text from the
// input and is empty for dispute, resolve and chargeback.
func NewTransaction(id uint32, client uint16, kind Kind, amount string) Transaction {
	return Transaction{
		id:     id,
		client: client,
		kind:   kind,
		amount: amount,
	}
}

func (t Transaction) ID() uint32 {
	return t.id
}

func (t Transaction) Client() uint16 {
	return t.client
}

func (t Transaction) Kind() Kind {
	return t.kind
}

// Amount returns the raw amount text.
func (t Transaction) Amount() string {
	return t.amount
}

// String returns a human-readable string representation.
func (t Transaction) String() string {
	return fmt.Sprintf("%s client: %d tx: %d amount: %q", t.kind, t.client, t.id, t.amount)
}
