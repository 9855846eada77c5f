package cash

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

const pathSendMsg = "cash/send"

// SendMsg moves funds from the signer cash account to Destination.
type SendMsg struct {
	Destination treasury.Address `json:"destination"`
	Amount      coin.Amount      `json:"amount"`
}

var _ treasury.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate ensures a positive amount goes to a valid address.
func (m *SendMsg) Validate() error {
	if m.Amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidInput, "amount must be positive")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return nil
}
