package weavetest

import (
	"context"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
)

// Transfer is a single call recorded by Transfers.
type Transfer struct {
	To     treasury.Address
	Amount coin.Amount
}

// Transfers is a transfer target that records every call. Err, if set, is
// returned from every call. Hook, if set, runs before the call is recorded
// and its error is returned instead.
type Transfers struct {
	Calls []Transfer
	Err   error
	Hook  func(ctx context.Context, db treasury.CacheableKVStore) error
}

// Transfer records the call.
func (t *Transfers) Transfer(ctx context.Context, db treasury.CacheableKVStore, to treasury.Address, amount coin.Amount) error {
	if t.Hook != nil {
		if err := t.Hook(ctx, db); err != nil {
			return err
		}
	}
	if t.Err != nil {
		return t.Err
	}
	t.Calls = append(t.Calls, Transfer{To: to, Amount: amount})
	return nil
}
