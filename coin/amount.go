package coin

import (
	"strconv"
	"strings"

	"github.com/iov-one/quorum/errors"
)

// Amount is a non-negative quantity of the vault's currency, expressed in
// its smallest unit.
type Amount uint64

// Add returns the sum of both amounts or ErrOverflow if it does not fit.
func (a Amount) Add(o Amount) (Amount, error) {
	sum := a + o
	if sum < a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, o)
	}
	return sum, nil
}

// Subtract returns a - o or ErrInsufficientAmount when o is greater than a.
func (a Amount) Subtract(o Amount) (Amount, error) {
	if o > a {
		return 0, errors.Wrapf(errors.ErrInsufficientAmount, "%d is less than %d", a, o)
	}
	return a - o, nil
}

// IsZero returns true when nothing is represented.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsGTE returns true if a is greater than or equal to o.
func (a Amount) IsGTE(o Amount) bool {
	return a >= o
}

// String returns the decimal representation.
func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// ParseAmount reads a decimal amount. Underscores can be used as digit
// separators, for example 1_000_000.
func ParseAmount(s string) (Amount, error) {
	clean := strings.Replace(strings.TrimSpace(s), "_", "", -1)
	if clean == "" {
		return 0, errors.Wrap(errors.ErrInput, "empty amount")
	}
	val, err := strconv.ParseUint(clean, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "invalid amount %q", s)
	}
	return Amount(val), nil
}

// Set implements flag.Value so that an amount can be read from the command
// line.
func (a *Amount) Set(raw string) error {
	val, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = val
	return nil
}
