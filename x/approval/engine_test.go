package approval

import (
	"context"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/weavetest"
	"github.com/iov-one/treasury/x/events"
	"github.com/iov-one/treasury/x/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wallet struct {
	db        treasury.CacheableKVStore
	engine    *Engine
	transfers *weavetest.Transfers
	owners    []treasury.Address
}

func newWallet(t *testing.T, ownerCount int, threshold uint32, rule Rule, funds coin.Amount) wallet {
	t.Helper()
	w := wallet{
		db:        store.MemStore(),
		transfers: &weavetest.Transfers{},
	}
	for i := 0; i < ownerCount; i++ {
		w.owners = append(w.owners, weavetest.NewAddress())
	}
	w.engine = NewEngine(nil, w.transfers)
	err := Configure(w.db, Genesis{
		Owners:         w.owners,
		Threshold:      threshold,
		ExecutionRule:  string(rule),
		InitialBalance: funds,
	})
	require.NoError(t, err)
	return w
}

// state captures everything an approval may change.
type state struct {
	transactions []ledger.Transaction
	balance      coin.Amount
	events       []events.Event
}

func (w wallet) state(t *testing.T) state {
	t.Helper()
	txs, err := w.engine.Transactions(w.db)
	require.NoError(t, err)
	b, err := w.engine.Balance(w.db)
	require.NoError(t, err)
	evts, err := w.engine.Events(w.db, 0)
	require.NoError(t, err)
	return state{transactions: txs, balance: b, events: evts}
}

func (w wallet) request(t *testing.T, value coin.Amount) (*ledger.Transaction, treasury.Address) {
	t.Helper()
	recipient := weavetest.NewAddress()
	tx, err := w.engine.RequestTransaction(context.Background(), w.db, w.owners[0], recipient, value)
	require.NoError(t, err)
	return tx, recipient
}

func TestExecuteWhenThresholdExceeded(t *testing.T) {
	ctx := context.Background()
	w := newWallet(t, 3, 2, RuleExceed, 100)
	tx, recipient := w.request(t, 40)

	for i, owner := range w.owners[:2] {
		res, err := w.engine.ApproveTransaction(ctx, w.db, owner, tx.Index)
		require.NoError(t, err)
		assert.False(t, res.Executed)
		assert.Equal(t, uint32(i+1), res.Transaction.Signatures)
		assert.Len(t, res.Events, 1)
	}
	assert.Empty(t, w.transfers.Calls)

	res, err := w.engine.ApproveTransaction(ctx, w.db, w.owners[2], tx.Index)
	require.NoError(t, err)
	assert.True(t, res.Executed)
	assert.True(t, res.Transaction.Executed)
	assert.Equal(t, uint32(3), res.Transaction.Signatures)
	require.Len(t, res.Events, 2)
	assert.Equal(t, events.KindSigned, res.Events[0].Kind)
	assert.Equal(t, events.KindExecuted, res.Events[1].Kind)
	assert.Equal(t, w.owners[2], res.Events[1].Account)

	require.Len(t, w.transfers.Calls, 1)
	assert.Equal(t, weavetest.Transfer{To: recipient, Amount: 40}, w.transfers.Calls[0])

	balance, err := w.engine.Balance(w.db)
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(60), balance)

	_, err = w.engine.ApproveTransaction(ctx, w.db, w.owners[0], tx.Index)
	assert.True(t, errors.ErrAlreadyExecuted.Is(err), "got %+v", err)

	// the rejected approval changes nothing
	s := w.state(t)
	assert.Equal(t, coin.Amount(60), s.balance)
	assert.Len(t, s.events, 4)
	assert.Len(t, w.transfers.Calls, 1)
}

func TestExecuteWhenThresholdReached(t *testing.T) {
	ctx := context.Background()
	w := newWallet(t, 3, 2, RuleReach, 100)
	tx, _ := w.request(t, 100)

	res, err := w.engine.ApproveTransaction(ctx, w.db, w.owners[1], tx.Index)
	require.NoError(t, err)
	assert.False(t, res.Executed)

	res, err = w.engine.ApproveTransaction(ctx, w.db, w.owners[2], tx.Index)
	require.NoError(t, err)
	assert.True(t, res.Executed)

	balance, err := w.engine.Balance(w.db)
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(0), balance)

	_, err = w.engine.ApproveTransaction(ctx, w.db, w.owners[0], tx.Index)
	assert.True(t, errors.ErrAlreadyExecuted.Is(err), "got %+v", err)
}

func TestApprovePreconditions(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		// prepare returns the signer and the index to approve
		prepare func(t *testing.T, w wallet) (treasury.Address, uint64)
		wantErr *errors.Error
	}{
		"non owner": {
			prepare: func(t *testing.T, w wallet) (treasury.Address, uint64) {
				tx, _ := w.request(t, 10)
				return weavetest.NewAddress(), tx.Index
			},
			wantErr: errors.ErrUnauthorized,
		},
		"non owner is rejected before the index is checked": {
			prepare: func(t *testing.T, w wallet) (treasury.Address, uint64) {
				return weavetest.NewAddress(), 42
			},
			wantErr: errors.ErrUnauthorized,
		},
		"unknown index": {
			prepare: func(t *testing.T, w wallet) (treasury.Address, uint64) {
				w.request(t, 10)
				return w.owners[0], 1
			},
			wantErr: errors.ErrNotFound,
		},
		"executed is reported before a repeated signature": {
			prepare: func(t *testing.T, w wallet) (treasury.Address, uint64) {
				tx, _ := w.request(t, 10)
				for _, o := range w.owners[:2] {
					_, err := w.engine.ApproveTransaction(ctx, w.db, o, tx.Index)
					require.NoError(t, err)
				}
				return w.owners[0], tx.Index
			},
			wantErr: errors.ErrAlreadyExecuted,
		},
		"repeated signature": {
			prepare: func(t *testing.T, w wallet) (treasury.Address, uint64) {
				tx, _ := w.request(t, 10)
				_, err := w.engine.ApproveTransaction(ctx, w.db, w.owners[1], tx.Index)
				require.NoError(t, err)
				return w.owners[1], tx.Index
			},
			wantErr: errors.ErrAlreadySigned,
		},
		"balance spent by another execution": {
			prepare: func(t *testing.T, w wallet) (treasury.Address, uint64) {
				first, _ := w.request(t, 60)
				second, _ := w.request(t, 60)
				for _, o := range w.owners[:2] {
					_, err := w.engine.ApproveTransaction(ctx, w.db, o, first.Index)
					require.NoError(t, err)
				}
				return w.owners[0], second.Index
			},
			wantErr: errors.ErrInsufficientFunds,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			w := newWallet(t, 3, 1, RuleExceed, 100)
			signer, index := tc.prepare(t, w)
			before := w.state(t)

			assert.True(t, tc.wantErr.Is(w.engine.CheckApproval(w.db, signer, index)))

			_, err := w.engine.ApproveTransaction(ctx, w.db, signer, index)
			require.Error(t, err)
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			assert.Equal(t, before, w.state(t))
		})
	}
}

func TestFailedTransferRollsBack(t *testing.T) {
	ctx := context.Background()
	w := newWallet(t, 3, 2, RuleExceed, 100)
	tx, recipient := w.request(t, 70)

	for _, o := range w.owners[:2] {
		_, err := w.engine.ApproveTransaction(ctx, w.db, o, tx.Index)
		require.NoError(t, err)
	}
	before := w.state(t)

	w.transfers.Err = errors.ErrDatabase.New("recipient rejected funds")
	_, err := w.engine.ApproveTransaction(ctx, w.db, w.owners[2], tx.Index)
	require.Error(t, err)
	assert.True(t, errors.ErrTransferFailed.Is(err), "got %+v", err)

	assert.Equal(t, before, w.state(t))
	stored, err := w.engine.Transaction(w.db, tx.Index)
	require.NoError(t, err)
	assert.False(t, stored.Executed)
	assert.Equal(t, uint32(2), stored.Signatures)
	signed, err := w.engine.Signed(w.db, tx.Index, w.owners[2])
	require.NoError(t, err)
	assert.False(t, signed)

	// The engine keeps working: once the recipient accepts, the same owner
	// can sign again.
	w.transfers.Err = nil
	res, err := w.engine.ApproveTransaction(ctx, w.db, w.owners[2], tx.Index)
	require.NoError(t, err)
	assert.True(t, res.Executed)
	assert.Equal(t, []weavetest.Transfer{{To: recipient, Amount: 70}}, w.transfers.Calls)
}

func TestReentrantApprovalIsRejected(t *testing.T) {
	ctx := context.Background()
	w := newWallet(t, 4, 2, RuleExceed, 100)
	tx, _ := w.request(t, 100)

	var (
		reentered       error
		balanceInside   coin.Amount
		executedInside  bool
		reentrantCalled bool
	)
	w.transfers.Hook = func(ctx context.Context, db treasury.CacheableKVStore) error {
		reentrantCalled = true
		stored, err := w.engine.Transaction(db, tx.Index)
		if err != nil {
			return err
		}
		executedInside = stored.Executed
		if balanceInside, err = w.engine.Balance(db); err != nil {
			return err
		}
		_, reentered = w.engine.ApproveTransaction(ctx, db, w.owners[3], tx.Index)
		return nil
	}

	for _, o := range w.owners[:3] {
		_, err := w.engine.ApproveTransaction(ctx, w.db, o, tx.Index)
		require.NoError(t, err)
	}

	require.True(t, reentrantCalled)
	assert.True(t, executedInside)
	assert.Equal(t, coin.Amount(0), balanceInside)
	assert.True(t, errors.ErrAlreadyExecuted.Is(reentered), "got %+v", reentered)
	assert.Len(t, w.transfers.Calls, 1)

	s := w.state(t)
	assert.Equal(t, coin.Amount(0), s.balance)
	assert.Equal(t, uint32(3), s.transactions[0].Signatures)
}

func TestRequestTransaction(t *testing.T) {
	ctx := context.Background()
	w := newWallet(t, 2, 1, RuleExceed, 50)

	_, err := w.engine.RequestTransaction(ctx, w.db, weavetest.NewAddress(), weavetest.NewAddress(), 1)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	_, err = w.engine.RequestTransaction(ctx, w.db, w.owners[1], weavetest.NewAddress(), 51)
	assert.True(t, errors.ErrInsufficientFunds.Is(err), "got %+v", err)

	txs, err := w.engine.Transactions(w.db)
	require.NoError(t, err)
	assert.Empty(t, txs)

	for i := 0; i < 3; i++ {
		tx, err := w.engine.RequestTransaction(ctx, w.db, w.owners[i%2], weavetest.NewAddress(), 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), tx.Index)
	}
	txs, err = w.engine.Transactions(w.db)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	for i, tx := range txs {
		assert.Equal(t, uint64(i), tx.Index)
		assert.Equal(t, w.owners[i%2], tx.Requester)
	}
}

// fakeSource withdraws from a single counter stored under sourceKey, so that
// its writes are subject to the same rollback as the wallet.
type fakeSource struct{}

var sourceKey = []byte("test:source")

func (fakeSource) Withdraw(db treasury.KVStore, from treasury.Address, amount coin.Amount) error {
	raw, err := db.Get(sourceKey)
	if err != nil {
		return err
	}
	have := coin.Amount(len(raw))
	left, err := have.Subtract(amount)
	if err != nil {
		return err
	}
	return db.Set(sourceKey, make([]byte, left))
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()
	depositor := weavetest.NewAddress()

	cases := map[string]struct {
		initial     coin.Amount
		sourceFunds int
		amount      coin.Amount
		wantErr     *errors.Error
		wantBalance coin.Amount
		wantSource  int
	}{
		"deposit": {
			initial:     5,
			sourceFunds: 10,
			amount:      7,
			wantBalance: 12,
			wantSource:  3,
		},
		"source without funds": {
			initial:     5,
			sourceFunds: 3,
			amount:      7,
			wantErr:     errors.ErrInsufficientFunds,
			wantBalance: 5,
			wantSource:  3,
		},
		"wallet overflow reverts withdrawal": {
			initial:     coin.MaxAmount,
			sourceFunds: 3,
			amount:      1,
			wantErr:     errors.ErrOverflow,
			wantBalance: coin.MaxAmount,
			wantSource:  3,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			w := newWallet(t, 1, 1, RuleExceed, tc.initial)
			w.engine = NewEngine(fakeSource{}, w.transfers)
			require.NoError(t, w.db.Set(sourceKey, make([]byte, tc.sourceFunds)))

			evt, err := w.engine.Deposit(ctx, w.db, depositor, tc.amount)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, events.KindDeposited, evt.Kind)
				assert.Equal(t, depositor, evt.Account)
				assert.Equal(t, tc.amount, evt.Value)
			}

			s := w.state(t)
			assert.Equal(t, tc.wantBalance, s.balance)
			if tc.wantErr != nil {
				assert.Empty(t, s.events)
			} else {
				assert.Len(t, s.events, 1)
			}
			raw, err := w.db.Get(sourceKey)
			require.NoError(t, err)
			assert.Len(t, raw, tc.wantSource)
		})
	}
}

func TestDepositWithoutSource(t *testing.T) {
	w := newWallet(t, 1, 1, RuleExceed, 0)

	_, err := w.engine.Deposit(context.Background(), w.db, weavetest.NewAddress(), 25)
	require.NoError(t, err)

	balance, err := w.engine.Balance(w.db)
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(25), balance)

	_, err = w.engine.Deposit(context.Background(), w.db, nil, 1)
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)
}
