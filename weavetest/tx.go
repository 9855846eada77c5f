package weavetest

import "github.com/iov-one/treasury"

// Tx is a transaction that was already authenticated, carrying a single
// message.
type Tx struct {
	Msg    treasury.Msg
	Sender treasury.Address
	Err    error
}

var _ treasury.Tx = (*Tx)(nil)

// GetMsg returns the message, or Err if set.
func (tx *Tx) GetMsg() (treasury.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

// Signer returns Sender.
func (tx *Tx) Signer() treasury.Address {
	return tx.Sender
}
