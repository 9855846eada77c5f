package app

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/store/iavl"
	"github.com/iov-one/treasury/weavetest"
	"github.com/iov-one/treasury/x/approval"
	"github.com/iov-one/treasury/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const testChainID = "treasury-test"

type account struct {
	key crypto.PrivateKey
	seq int64
}

func newAccount() *account {
	return &account{key: weavetest.NewKey()}
}

func (a *account) addr() treasury.Address {
	return a.key.Address()
}

// sign returns the signed transaction and bumps the local sequence.
func (a *account) sign(t *testing.T, msg treasury.Msg) []byte {
	t.Helper()
	tx := &Tx{Msg: msg}
	require.NoError(t, tx.Sign(a.key, testChainID, a.seq))
	bz, err := tx.Marshal()
	require.NoError(t, err)
	a.seq++
	return bz
}

type testWallet struct {
	app       *Application
	owners    []*account
	depositor *account
}

func newTestWallet(t *testing.T) testWallet {
	t.Helper()
	return newTestWalletOn(t, iavl.MockCommitStore())
}

func newTestWalletOn(t *testing.T, db treasury.CommitKVStore) testWallet {
	t.Helper()
	w := testWallet{
		owners:    []*account{newAccount(), newAccount(), newAccount()},
		depositor: newAccount(),
	}
	app, err := NewWallet(db, true)
	require.NoError(t, err)
	w.app = app

	genesis := fmt.Sprintf(`{
		"wallet": {
			"owners": [%q, %q, %q],
			"threshold": 2,
			"execution_rule": "exceed"
		},
		"cash": [{"address": %q, "amount": 1000}]
	}`, w.owners[0].addr(), w.owners[1].addr(), w.owners[2].addr(), w.depositor.addr())
	w.app.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(genesis)})
	w.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	return w
}

func (w testWallet) deliver(t *testing.T, signer *account, msg treasury.Msg) abci.ResponseDeliverTx {
	t.Helper()
	return w.app.DeliverTx(signer.sign(t, msg))
}

func (w testWallet) query(t *testing.T, path string, data []byte, dst interface{}) {
	t.Helper()
	res := w.app.Query(abci.RequestQuery{Path: path, Data: data})
	require.Equal(t, uint32(0), res.Code, res.Log)
	require.NoError(t, json.Unmarshal(res.Value, dst))
}

func TestWalletLifecycle(t *testing.T) {
	w := newTestWallet(t)
	recipient := weavetest.NewAddress()

	res := w.deliver(t, w.depositor, &approval.DepositMsg{Amount: 500})
	require.Equal(t, uint32(0), res.Code, res.Log)

	res = w.deliver(t, w.owners[0], &approval.RequestTransactionMsg{Recipient: recipient, Value: 300})
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, orm.EncodeSequence(0), res.Data)

	for i, o := range w.owners {
		res = w.deliver(t, o, &approval.ApproveTransactionMsg{Index: 0})
		require.Equal(t, uint32(0), res.Code, res.Log)
		if i < 2 {
			assert.Equal(t, "transaction 0 signed", res.Log)
		}
	}
	assert.Equal(t, "transaction 0 executed", res.Log)

	commit := w.app.Commit()
	assert.NotEmpty(t, commit.Data)
	info := w.app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	var bal approval.BalanceResponse
	w.query(t, "/balance", nil, &bal)
	assert.Equal(t, coin.Amount(200), bal.Balance)

	var acc cash.Account
	w.query(t, "/accounts", recipient, &acc)
	assert.Equal(t, coin.Amount(300), acc.Amount)
	w.query(t, "/accounts", w.depositor.addr(), &acc)
	assert.Equal(t, coin.Amount(500), acc.Amount)

	var txs []map[string]interface{}
	w.query(t, "/transactions", nil, &txs)
	require.Len(t, txs, 1)
	assert.Equal(t, true, txs[0]["executed"])
	assert.Equal(t, float64(3), txs[0]["signatures"])

	var evts []map[string]interface{}
	w.query(t, "/events", nil, &evts)
	kinds := make([]interface{}, 0, len(evts))
	for _, e := range evts {
		kinds = append(kinds, e["kind"])
	}
	assert.Equal(t, []interface{}{"deposited", "signed", "signed", "signed", "executed"}, kinds)

	// a fourth approval is rejected
	w.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2}})
	res = w.deliver(t, w.owners[0], &approval.ApproveTransactionMsg{Index: 0})
	assert.Equal(t, errors.ErrAlreadyExecuted.ABCICode(), res.Code)
}

func TestWalletOnDisk(t *testing.T) {
	db, cleanup := weavetest.CommitKVStore(t)
	defer cleanup()
	w := newTestWalletOn(t, db)

	res := w.deliver(t, w.depositor, &approval.DepositMsg{Amount: 120})
	require.Equal(t, uint32(0), res.Code, res.Log)
	w.app.EndBlock(abci.RequestEndBlock{Height: 1})
	commit := w.app.Commit()
	assert.NotEmpty(t, commit.Data)

	info := w.app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	var balance approval.BalanceResponse
	w.query(t, "/balance", nil, &balance)
	assert.Equal(t, coin.Amount(120), balance.Balance)
}

func TestRejectedTransactionsLeaveNoTrace(t *testing.T) {
	w := newTestWallet(t)
	stranger := newAccount()

	res := w.deliver(t, stranger, &approval.RequestTransactionMsg{Recipient: weavetest.NewAddress(), Value: 1})
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)

	// the sequence increment of the failed transaction was discarded
	stranger.seq--
	res = w.deliver(t, stranger, &approval.DepositMsg{Amount: 1})
	assert.Equal(t, errors.ErrInsufficientFunds.ABCICode(), res.Code)

	res = w.deliver(t, w.owners[0], &approval.RequestTransactionMsg{Recipient: weavetest.NewAddress(), Value: 1})
	assert.Equal(t, errors.ErrInsufficientFunds.ABCICode(), res.Code)

	w.app.Commit()
	var txs []map[string]interface{}
	w.query(t, "/transactions", nil, &txs)
	assert.Empty(t, txs)
}

func TestReplayAndForgery(t *testing.T) {
	w := newTestWallet(t)

	bz := w.depositor.sign(t, &approval.DepositMsg{Amount: 10})
	res := w.app.DeliverTx(bz)
	require.Equal(t, uint32(0), res.Code, res.Log)

	res = w.app.DeliverTx(bz)
	assert.Equal(t, errors.ErrInvalidSequence.ABCICode(), res.Code)

	tx := &Tx{Msg: &approval.DepositMsg{Amount: 10}}
	require.NoError(t, tx.Sign(w.depositor.key, "another-chain", w.depositor.seq))
	bz, err := tx.Marshal()
	require.NoError(t, err)
	res = w.app.DeliverTx(bz)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)

	res = w.app.DeliverTx([]byte("not a transaction"))
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), res.Code)
}

func TestCheckTx(t *testing.T) {
	w := newTestWallet(t)
	w.app.Commit()

	// sequences accumulate in the check state
	for i := 0; i < 3; i++ {
		res := w.app.CheckTx(w.depositor.sign(t, &approval.DepositMsg{Amount: 1}))
		require.Equal(t, uint32(0), res.Code, res.Log)
	}

	res := w.app.CheckTx(w.owners[1].sign(t, &approval.ApproveTransactionMsg{Index: 0}))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	// check never changes the committed state
	var bal approval.BalanceResponse
	w.query(t, "/balance", nil, &bal)
	assert.Equal(t, coin.Amount(0), bal.Balance)
}

func TestQueryErrors(t *testing.T) {
	w := newTestWallet(t)
	w.app.Commit()

	res := w.app.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	res = w.app.Query(abci.RequestQuery{Path: "/transactions", Data: []byte{1, 2}})
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), res.Code)

	var owners approval.OwnersResponse
	w.query(t, "/owners?full", nil, &owners)
	assert.Len(t, owners.Owners, 3)
	assert.Equal(t, uint32(2), owners.Threshold)
}

func TestInitChainTwicePanics(t *testing.T) {
	w := newTestWallet(t)
	assert.Equal(t, testChainID, w.app.ChainID())
	assert.Panics(t, func() {
		w.app.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(`{}`)})
	})
}

func TestInvalidGenesisPanics(t *testing.T) {
	app, err := NewWallet(iavl.MockCommitStore(), false)
	require.NoError(t, err)
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{
			ChainId:       testChainID,
			AppStateBytes: []byte(`{"wallet": {"owners": [], "threshold": 1}}`),
		})
	})
}
