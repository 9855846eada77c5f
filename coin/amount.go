/*
Package coin implements the fungible amount held by the wallet and by cash
accounts.

All arithmetic is checked: an operation that cannot be represented fails with
an error instead of wrapping around.
*/
package coin

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/iov-one/treasury/errors"
)

// MaxAmount is the largest value an Amount can hold.
const MaxAmount Amount = math.MaxUint64

// Amount is a non-negative quantity expressed in the smallest indivisible
// unit.
type Amount uint64

// Add returns the sum of both amounts, or ErrOverflow if the result does not
// fit.
func (a Amount) Add(o Amount) (Amount, error) {
	if o > MaxAmount-a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, o)
	}
	return a + o, nil
}

// Subtract returns a - o. It fails with ErrInsufficientFunds if o is greater
// than a, as there is no negative amount.
func (a Amount) Subtract(o Amount) (Amount, error) {
	if o > a {
		return 0, errors.Wrapf(errors.ErrInsufficientFunds, "%d - %d", a, o)
	}
	return a - o, nil
}

// IsZero returns true if nothing is held.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsGTE returns true if a is greater than or equal to o.
func (a Amount) IsGTE(o Amount) bool {
	return a >= o
}

func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// ParseAmount reads a base 10 representation of an amount.
func ParseAmount(raw string) (Amount, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "amount %q", raw)
	}
	return Amount(v), nil
}

// Set implements flag.Value so an amount can be passed on the command line.
func (a *Amount) Set(raw string) error {
	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string. The
// later form avoids precision loss in JSON tooling for values above 2^53.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return a.Set(s)
	}
	var v uint64
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "amount must be a non negative integer")
	}
	*a = Amount(v)
	return nil
}
