package ledger

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/payledger/internal/domain"
	"go.uber.org/zap"
)

var (
	// ErrTxDuplicated is returned when a deposit or withdrawal reuses a known id.
	ErrTxDuplicated = errors.New("transaction is duplicated")
	// ErrTxNotFound is returned when a dispute, resolve or chargeback
	// references an id that is unknown or belongs to another client.
	ErrTxNotFound = errors.New("transaction not found")
	// ErrTxAlreadyDisputed is returned when disputing a transaction under dispute.
	ErrTxAlreadyDisputed = errors.New("transaction is already disputed")
	// ErrTxNotDisputed is returned when resolving or charging back a
	// transaction that is not under dispute.
	ErrTxNotDisputed = errors.New("transaction is not disputed")
	// ErrTxChargedBack is returned for any reference to a charged back transaction.
	ErrTxChargedBack = errors.New("transaction is charged back")
)

// Sink receives exported client snapshots.
type Sink interface {
	WriteSnapshot(snapshot domain.Snapshot) error
}

// IsFatal reports whether err must abort the run rather than reject
// a single transaction.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrTxDuplicated) || errors.Is(err, domain.ErrParseAmount)
}

type disputeState int

const (
	stateSettled disputeState = iota
	stateDisputed
	stateChargedBack
)

// entry is a deposit or withdrawal kept for dispute lookups.
type entry struct {
	tx     domain.Transaction
	amount domain.Amount
	state  disputeState
	// booked is false when the transaction itself was rejected; its id stays
	// reserved but it cannot be disputed.
	booked bool
}

// Stats summarises a run.
type Stats struct {
	Clients  int
	Applied  int
	Rejected int
	Locked   int
}

// Accountant replays transactions against client balances.
// It is not safe for concurrent use.
type Accountant struct {
	logger   *zap.Logger
	clients  map[uint16]*domain.ClientBalance
	history  map[uint32]*entry
	rejected []uint32
	applied  int
}

// NewAccountant creates an empty accountant.
func NewAccountant(logger *zap.Logger) *Accountant {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Accountant{
		logger:  logger,
		clients: make(map[uint16]*domain.ClientBalance),
		history: make(map[uint32]*entry),
	}
}

// Apply books a single transaction.
// Business rule violations reject the transaction and return nil;
// only errors for which IsFatal holds are returned.
func (a *Accountant) Apply(tx domain.Transaction) error {
	var ref *entry

	if !tx.Kind().IsDisputeFamily() {
		amount, err := domain.ParseAmount(tx.Amount())
		if err != nil {
			return errors.Wrapf(err, "tx %d", tx.ID())
		}
		if _, ok := a.history[tx.ID()]; ok {
			return errors.Wrapf(ErrTxDuplicated, "tx %d", tx.ID())
		}
		ref = &entry{tx: tx, amount: amount}
		a.history[tx.ID()] = ref
	}

	balance := a.client(tx.Client())

	if err := a.book(balance, tx, ref); err != nil {
		a.rejected = append(a.rejected, tx.ID())
		a.logger.Debug("transaction rejected",
			zap.Uint32("tx", tx.ID()),
			zap.Uint16("client", tx.Client()),
			zap.String("type", tx.Kind().String()),
			zap.Error(err))
		return nil
	}
	if ref != nil {
		ref.booked = true
	}
	a.applied++

	return nil
}

func (a *Accountant) client(id uint16) *domain.ClientBalance {
	balance, ok := a.clients[id]
	if !ok {
		balance = domain.NewClientBalance(id)
		a.clients[id] = balance
	}

	return balance
}

func (a *Accountant) book(balance *domain.ClientBalance, tx domain.Transaction, own *entry) error {
	switch tx.Kind() {
	case domain.KindDeposit:
		return balance.Deposit(own.amount)
	case domain.KindWithdrawal:
		return balance.Withdraw(own.amount)
	}

	ref, err := a.reference(tx)
	if err != nil {
		return err
	}

	switch tx.Kind() {
	case domain.KindDispute:
		if ref.state == stateDisputed {
			return errors.Wrapf(ErrTxAlreadyDisputed, "tx %d", tx.ID())
		}
		if err := balance.Dispute(ref.amount); err != nil {
			return err
		}
		ref.state = stateDisputed
	case domain.KindResolve:
		if ref.state != stateDisputed {
			return errors.Wrapf(ErrTxNotDisputed, "tx %d", tx.ID())
		}
		if err := balance.Resolve(ref.amount); err != nil {
			return err
		}
		ref.state = stateSettled
	case domain.KindChargeback:
		if ref.state != stateDisputed {
			return errors.Wrapf(ErrTxNotDisputed, "tx %d", tx.ID())
		}
		if err := balance.Chargeback(ref.amount); err != nil {
			return err
		}
		ref.state = stateChargedBack
	default:
		return errors.Wrapf(domain.ErrUnknownKind, "tx %d", tx.ID())
	}

	return nil
}

// reference finds the transaction a dispute-family record points at.
func (a *Accountant) reference(tx domain.Transaction) (*entry, error) {
	ref, ok := a.history[tx.ID()]
	if !ok || !ref.booked || ref.tx.Client() != tx.Client() {
		return nil, errors.Wrapf(ErrTxNotFound, "tx %d", tx.ID())
	}
	if ref.state == stateChargedBack {
		return nil, errors.Wrapf(ErrTxChargedBack, "tx %d", tx.ID())
	}

	return ref, nil
}

// Export writes one snapshot per client, ordered by client id.
func (a *Accountant) Export(sink Sink) error {
	for _, id := range a.clientIDs() {
		if err := sink.WriteSnapshot(a.clients[id].Snapshot()); err != nil {
			return errors.Wrapf(err, "export client %d", id)
		}
	}

	return nil
}

func (a *Accountant) clientIDs() []uint16 {
	ids := make([]uint16, 0, len(a.clients))
	for id := range a.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Balance returns the current snapshot of a client.
func (a *Accountant) Balance(client uint16) (domain.Snapshot, bool) {
	balance, ok := a.clients[client]
	if !ok {
		return domain.Snapshot{}, false
	}

	return balance.Snapshot(), true
}

// Rejected returns the ids of rejected transactions in input order.
func (a *Accountant) Rejected() []uint32 {
	out := make([]uint32, len(a.rejected))
	copy(out, a.rejected)

	return out
}

// Applied returns the number of transactions booked successfully.
func (a *Accountant) Applied() int {
	return a.applied
}

// Clients returns the number of clients seen so far.
func (a *Accountant) Clients() int {
	return len(a.clients)
}

// Stats returns counters for the run so far.
func (a *Accountant) Stats() Stats {
	stats := Stats{
		Clients:  len(a.clients),
		Applied:  a.applied,
		Rejected: len(a.rejected),
	}
	for _, balance := range a.clients {
		if balance.Locked() {
			stats.Locked++
		}
	}

	return stats
}
