package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInsufficientFunds is matched by every *InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAccountLocked is returned for any operation on a locked balance.
	ErrAccountLocked = errors.New("account is locked")
	// ErrNegativeAmount is returned when an operation is given an amount below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// InsufficientFundsError reports the requested amount and the balance that
// could not cover it.
type InsufficientFundsError struct {
	Amount  Amount
	Balance Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: tried to move %s, balance is %s", e.Amount, e.Balance)
}

// Is makes errors.Is(err, ErrInsufficientFunds) hold.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Snapshot is the exported state of one client.
type Snapshot struct {
	Client    uint16
	Available Amount
	Held      Amount
	Total     Amount
	Locked    bool
}

// ClientBalance holds the funds of one client.
// Every operation either commits all of its field updates or none of them,
// and keeps total == available + held with no field going negative.
type ClientBalance struct {
	client    uint16
	available Amount
	held      Amount
	total     Amount
	locked    bool
}

// NewClientBalance creates an empty, unlocked balance.
func NewClientBalance(client uint16) *ClientBalance {
	return &ClientBalance{
		client:    client,
		available: Zero,
		held:      Zero,
		total:     Zero,
	}
}

func (b *ClientBalance) Client() uint16 {
	return b.client
}

func (b *ClientBalance) Available() Amount {
	return b.available
}

func (b *ClientBalance) Held() Amount {
	return b.held
}

func (b *ClientBalance) Total() Amount {
	return b.total
}

func (b *ClientBalance) Locked() bool {
	return b.locked
}

// Snapshot returns a copy of the current state.
func (b *ClientBalance) Snapshot() Snapshot {
	return Snapshot{
		Client:    b.client,
		Available: b.available,
		Held:      b.held,
		Total:     b.total,
		Locked:    b.locked,
	}
}

// Deposit credits available and total funds.
func (b *ClientBalance) Deposit(amount Amount) error {
	if err := b.validate(amount); err != nil {
		return err
	}

	available, err := b.available.Add(amount)
	if err != nil {
		return err
	}
	total, err := b.total.Add(amount)
	if err != nil {
		return err
	}

	b.available = available
	b.total = total

	return nil
}

// Withdraw debits available and total funds.
func (b *ClientBalance) Withdraw(amount Amount) error {
	if err := b.validate(amount); err != nil {
		return err
	}

	available, err := debit(b.available, amount)
	if err != nil {
		return err
	}
	total, err := debit(b.total, amount)
	if err != nil {
		return err
	}

	b.available = available
	b.total = total

	return nil
}

// Dispute moves funds from available to held.
func (b *ClientBalance) Dispute(amount Amount) error {
	if err := b.validate(amount); err != nil {
		return err
	}

	available, err := debit(b.available, amount)
	if err != nil {
		return err
	}
	held, err := b.held.Add(amount)
	if err != nil {
		return err
	}

	b.available = available
	b.held = held

	return nil
}

// Resolve releases held funds back to available.
func (b *ClientBalance) Resolve(amount Amount) error {
	if err := b.validate(amount); err != nil {
		return err
	}

	held, err := debit(b.held, amount)
	if err != nil {
		return err
	}
	available, err := b.available.Add(amount)
	if err != nil {
		return err
	}

	b.held = held
	b.available = available

	return nil
}

// Chargeback removes held funds from the account and locks it.
func (b *ClientBalance) Chargeback(amount Amount) error {
	if err := b.validate(amount); err != nil {
		return err
	}

	held, err := debit(b.held, amount)
	if err != nil {
		return err
	}
	total, err := debit(b.total, amount)
	if err != nil {
		return err
	}

	b.held = held
	b.total = total
	b.locked = true

	return nil
}

func (b *ClientBalance) validate(amount Amount) error {
	if b.locked {
		return errors.Wrapf(ErrAccountLocked, "client %d", b.client)
	}
	if amount.IsNegative() {
		return errors.Wrapf(ErrNegativeAmount, "%s", amount)
	}

	return nil
}

// debit returns balance - amount, failing when the result would be negative.
func debit(balance, amount Amount) (Amount, error) {
	rest, err := balance.Sub(amount)
	if err != nil {
		return Amount{}, err
	}
	if rest.IsNegative() {
		return Amount{}, &InsufficientFundsError{Amount: amount, Balance: balance}
	}

	return rest, nil
}
