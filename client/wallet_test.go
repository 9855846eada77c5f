package client

import (
	"testing"

	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/weavetest"
	"github.com/iov-one/treasury/weavetest/assert"
	"github.com/iov-one/treasury/x/approval"
	"github.com/iov-one/treasury/x/events"
)

func TestWalletOverRPC(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()
	recipient := weavetest.NewAddress()

	owners, err := c.Owners(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(owners.Owners))
	assert.Equal(t, uint32(2), owners.Threshold)
	assert.Equal(t, approval.RuleReach, owners.ExecutionRule)

	_, err = c.SignAndCommit(ctx, alice, &approval.DepositMsg{Amount: 600})
	assert.Nil(t, err)
	balance, err := c.Balance(ctx)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(600), balance)
	funds, err := c.Account(ctx, alice.Address())
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(400), funds)

	res, err := c.SignAndCommit(ctx, alice, &approval.RequestTransactionMsg{Recipient: recipient, Value: 250})
	assert.Nil(t, err)
	index, err := orm.DecodeSequence(res.Data)
	assert.Nil(t, err)

	_, err = c.SignAndCommit(ctx, alice, &approval.ApproveTransactionMsg{Index: index})
	assert.Nil(t, err)
	signed, err := c.Signed(ctx, index, alice.Address())
	assert.Nil(t, err)
	assert.Equal(t, true, signed)
	pending, err := c.Transaction(ctx, index)
	assert.Nil(t, err)
	assert.Equal(t, false, pending.Executed)

	// the second signature reaches the threshold
	_, err = c.SignAndCommit(ctx, bob, &approval.ApproveTransactionMsg{Index: index})
	assert.Nil(t, err)
	executed, err := c.Transaction(ctx, index)
	assert.Nil(t, err)
	assert.Equal(t, true, executed.Executed)
	assert.Equal(t, uint32(2), executed.Signatures)

	balance, err = c.Balance(ctx)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(350), balance)
	paid, err := c.Account(ctx, recipient)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(250), paid)

	// rejected by CheckTx, never reaches a block
	_, err = c.SignAndCommit(ctx, carol, &approval.ApproveTransactionMsg{Index: index})
	assert.IsErr(t, errors.ErrAlreadyExecuted, err)
	_, err = c.SignAndCommit(ctx, weavetest.NewKey(), &approval.RequestTransactionMsg{Recipient: recipient, Value: 1})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	all, err := c.Transactions(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(all))

	evts, err := c.Events(ctx, 0)
	assert.Nil(t, err)
	kinds := make([]events.Kind, len(evts))
	for i, e := range evts {
		kinds[i] = e.Kind
	}
	assert.Equal(t, []events.Kind{events.KindDeposited, events.KindSigned, events.KindSigned, events.KindExecuted}, kinds)

	found, err := c.SearchTx(ctx, QueryTxByTag("event", string(events.KindExecuted)))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(found))
	assert.Nil(t, found[0].Err)
}
