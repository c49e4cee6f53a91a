package domain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireBalance(t *testing.T, b *ClientBalance, available, held, total string) {
	t.Helper()
	require.True(t, b.Available().Equal(mustAmount(t, available)), "available: expected %s, got %s", available, b.Available())
	require.True(t, b.Held().Equal(mustAmount(t, held)), "held: expected %s, got %s", held, b.Held())
	require.True(t, b.Total().Equal(mustAmount(t, total)), "total: expected %s, got %s", total, b.Total())

	sum, err := b.Available().Add(b.Held())
	require.NoError(t, err)
	require.True(t, sum.Equal(b.Total()), "total must equal available + held")
}

func TestNewClientBalance(t *testing.T) {
	b := NewClientBalance(7)

	assert.Equal(t, uint16(7), b.Client())
	assert.False(t, b.Locked())
	requireBalance(t, b, "0", "0", "0")
}

func TestDeposit_IncreasesBalance(t *testing.T) {
	b := NewClientBalance(1)

	steps := []struct {
		amount   string
		expected string
	}{
		{"100.1234", "100.1234"},
		{"0.1", "100.2234"},
		{"1.0", "101.2234"},
		{"1.1", "102.3234"},
	}
	for _, s := range steps {
		require.NoError(t, b.Deposit(mustAmount(t, s.amount)))
		requireBalance(t, b, s.expected, "0", s.expected)
	}
	assert.Equal(t, "102.3234", b.Available().String())
}

func TestWithdraw_DecreasesBalance(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "200.5000")))
	require.NoError(t, b.Withdraw(mustAmount(t, "50.5000")))

	requireBalance(t, b, "150", "0", "150")
	assert.Equal(t, "150.0000", b.Total().String())
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "50")))

	err := b.Withdraw(mustAmount(t, "100"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	var fundsErr *InsufficientFundsError
	require.True(t, errors.As(err, &fundsErr))
	assert.Equal(t, "100.0000", fundsErr.Amount.String())
	assert.Equal(t, "50.0000", fundsErr.Balance.String())

	requireBalance(t, b, "50", "0", "50")
}

func TestResolve_InsufficientHeldFunds(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "10")))

	err := b.Resolve(mustAmount(t, "5"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "insufficient funds: tried to move 5.0000, balance is 0.0000", err.Error())

	requireBalance(t, b, "10", "0", "10")
}

func TestWithdraw_HeldFundsAreNotAvailable(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "100")))
	require.NoError(t, b.Dispute(mustAmount(t, "80")))

	err := b.Withdraw(mustAmount(t, "30"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	requireBalance(t, b, "20", "80", "100")
}

func TestDispute_MovesFundsToHeld(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "150")))
	require.NoError(t, b.Dispute(mustAmount(t, "50")))

	requireBalance(t, b, "100", "50", "150")
}

func TestDispute_InsufficientAvailable(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "40")))

	err := b.Dispute(mustAmount(t, "50"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	requireBalance(t, b, "40", "0", "40")
}

func TestResolve_ReturnsHeldToAvailable(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "200")))
	require.NoError(t, b.Dispute(mustAmount(t, "200")))
	require.NoError(t, b.Resolve(mustAmount(t, "200")))

	requireBalance(t, b, "200", "0", "200")
}

func TestResolve_NotEnoughHeld(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "200")))
	require.NoError(t, b.Dispute(mustAmount(t, "80")))

	err := b.Resolve(mustAmount(t, "90"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	requireBalance(t, b, "120", "80", "200")
}

func TestChargeback_LocksAccount(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "120")))
	require.NoError(t, b.Dispute(mustAmount(t, "50")))
	require.NoError(t, b.Chargeback(mustAmount(t, "50")))

	requireBalance(t, b, "70", "0", "70")
	assert.True(t, b.Locked())
}

func TestChargeback_NotEnoughHeld(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "120")))
	require.NoError(t, b.Dispute(mustAmount(t, "50")))

	err := b.Chargeback(mustAmount(t, "51"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.False(t, b.Locked())
	requireBalance(t, b, "70", "50", "120")
}

func TestLockedBalance_RejectsEveryOperation(t *testing.T) {
	b := NewClientBalance(3)
	require.NoError(t, b.Deposit(mustAmount(t, "120")))
	require.NoError(t, b.Dispute(mustAmount(t, "100")))
	require.NoError(t, b.Chargeback(mustAmount(t, "50")))
	before := b.Snapshot()

	ops := map[string]func(Amount) error{
		"deposit":    b.Deposit,
		"withdraw":   b.Withdraw,
		"dispute":    b.Dispute,
		"resolve":    b.Resolve,
		"chargeback": b.Chargeback,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op(mustAmount(t, "1"))
			assert.ErrorIs(t, err, ErrAccountLocked)
			assert.Equal(t, before, b.Snapshot())
		})
	}
}

func TestNegativeAmountIsRejected(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "10")))

	assert.ErrorIs(t, b.Deposit(mustAmount(t, "-5")), ErrNegativeAmount)
	assert.ErrorIs(t, b.Withdraw(mustAmount(t, "-5")), ErrNegativeAmount)
	requireBalance(t, b, "10", "0", "10")
}

func TestDeposit_OverflowLeavesBalanceUnchanged(t *testing.T) {
	b := NewClientBalance(1)
	require.NoError(t, b.Deposit(mustAmount(t, "79228162514264337593543950335")))
	before := b.Snapshot()

	err := b.Deposit(mustAmount(t, "1"))
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, before, b.Snapshot())
}
