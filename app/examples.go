package app

import (
	"fmt"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/commands"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/x/approval"
	"github.com/iov-one/treasury/x/cash"
)

// exampleSeed is a fixed master seed so testgen output is reproducible.
// Keys derived from it are not secret.
var exampleSeed = []byte("treasury example master seed, never use it for funds")

const exampleChainID = "test-123"

func exampleKey(account int) crypto.PrivateKey {
	key, err := crypto.DeriveKey(exampleSeed, fmt.Sprintf("m/44'/234'/%d'", account))
	if err != nil {
		panic(err)
	}
	return key
}

// Examples generates signed transactions of every message type to dump out
// with testgen.
func Examples() []commands.Example {
	owner := exampleKey(0)
	recipient := exampleKey(1).Address()

	msgs := []struct {
		name string
		msg  treasury.Msg
	}{
		{"deposit_tx", &approval.DepositMsg{Amount: coin.Amount(500)}},
		{"request_transaction_tx", &approval.RequestTransactionMsg{Recipient: recipient, Value: coin.Amount(250)}},
		{"approve_transaction_tx", &approval.ApproveTransactionMsg{Index: 0}},
		{"send_tx", &cash.SendMsg{Destination: recipient, Amount: coin.Amount(75)}},
	}

	examples := make([]commands.Example, 0, len(msgs))
	for i, m := range msgs {
		tx := &Tx{Msg: m.msg}
		if err := tx.Sign(owner, exampleChainID, int64(i)); err != nil {
			panic(err)
		}
		examples = append(examples, commands.Example{Filename: m.name, Obj: tx})
	}
	return examples
}
