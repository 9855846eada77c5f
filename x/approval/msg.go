package approval

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

const (
	pathDepositMsg            = "treasury/deposit"
	pathRequestTransactionMsg = "treasury/request_transaction"
	pathApproveTransactionMsg = "treasury/approve_transaction"
)

// DepositMsg moves funds from the signer cash account into the wallet.
type DepositMsg struct {
	Amount coin.Amount `json:"amount"`
}

var _ treasury.Msg = (*DepositMsg)(nil)

// Path returns the routing path for this message.
func (DepositMsg) Path() string {
	return pathDepositMsg
}

// Validate ensures something is deposited.
func (m *DepositMsg) Validate() error {
	if m.Amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidInput, "amount must be positive")
	}
	return nil
}

// RequestTransactionMsg asks the owners to approve a transfer of Value to
// Recipient.
type RequestTransactionMsg struct {
	Recipient treasury.Address `json:"recipient"`
	Value     coin.Amount      `json:"value"`
}

var _ treasury.Msg = (*RequestTransactionMsg)(nil)

// Path returns the routing path for this message.
func (RequestTransactionMsg) Path() string {
	return pathRequestTransactionMsg
}

// Validate ensures the recipient is a valid address.
func (m *RequestTransactionMsg) Validate() error {
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	return nil
}

// ApproveTransactionMsg signs the transaction at Index.
type ApproveTransactionMsg struct {
	Index uint64 `json:"index"`
}

var _ treasury.Msg = (*ApproveTransactionMsg)(nil)

// Path returns the routing path for this message.
func (ApproveTransactionMsg) Path() string {
	return pathApproveTransactionMsg
}

// Validate always succeeds; an unknown index is detected against the
// ledger.
func (m *ApproveTransactionMsg) Validate() error {
	return nil
}
