package domain

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// amountPlaces is the number of fractional digits in rendered amounts.
const amountPlaces = 4

var (
	// ErrParseAmount is returned when text cannot be turned into an Amount.
	ErrParseAmount = errors.New("invalid amount")
	// ErrOverflow is returned when arithmetic leaves the representable range.
	ErrOverflow = errors.New("value overflow")
)

// maxMagnitude is the largest absolute value an Amount may hold (2^96 - 1).
var maxMagnitude = decimal.RequireFromString("79228162514264337593543950335")

// Amount is an exact monetary quantity.
// It is rendered with four fractional digits and never rounded before that.
type Amount struct {
	value decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{value: decimal.Zero}

// ParseAmount parses decimal text such as "100", "0.1" or "2.7500".
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, errors.Wrap(ErrParseAmount, "empty amount")
	}

	if !isDecimalText(s) {
		return Amount{}, errors.Wrapf(ErrParseAmount, "%q is not a decimal number", s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, errors.Wrapf(ErrParseAmount, "%q: %s", s, err)
	}
	if d.Abs().GreaterThan(maxMagnitude) {
		return Amount{}, errors.Wrapf(ErrParseAmount, "%q is out of range", s)
	}

	return Amount{value: d}, nil
}

// isDecimalText reports whether s is an optionally signed run of digits with
// at most one decimal point. Exponent notation is not accepted.
func isDecimalText(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}

	digits, point := 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !point:
			point = true
		default:
			return false
		}
	}

	return digits > 0
}

// NewAmountFromInt returns an amount holding a whole number.
func NewAmountFromInt(v int64) Amount {
	return Amount{value: decimal.NewFromInt(v)}
}

// Add returns a + b.
func (a Amount) Add(b Amount) (Amount, error) {
	return checked(a.value.Add(b.value))
}

// Sub returns a - b. Negative results are allowed.
func (a Amount) Sub(b Amount) (Amount, error) {
	return checked(a.value.Sub(b.value))
}

func checked(d decimal.Decimal) (Amount, error) {
	if d.Abs().GreaterThan(maxMagnitude) {
		return Amount{}, ErrOverflow
	}

	return Amount{value: d}, nil
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{value: a.value.Neg()}
}

// Cmp compares a and b, returning -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.value.Cmp(b.value)
}

// Equal reports whether a and b hold the same value regardless of scale.
func (a Amount) Equal(b Amount) bool {
	return a.value.Equal(b.value)
}

func (a Amount) IsNegative() bool {
	return a.value.IsNegative()
}

func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// String renders the amount with exactly four fractional digits.
func (a Amount) String() string {
	return a.value.StringFixed(amountPlaces)
}
