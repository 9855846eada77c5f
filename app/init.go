package app

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/store/iavl"
	"github.com/iov-one/treasury/x/approval"
	"github.com/iov-one/treasury/x/cash"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// AppState is the app_state section of the genesis file.
type AppState struct {
	Wallet approval.Genesis      `json:"wallet"`
	Cash   []cash.GenesisAccount `json:"cash"`
}

// GenInitOptions produces the app_state for a new wallet. Positional
// arguments are the owner addresses. Without any, a single owner key is
// generated and printed out so it can be imported in a client.
//
//   init [-threshold N] [-rule exceed|reach] [-balance N] [-cash N] [owner...]
//
// Every owner also gets a cash account holding -cash, to deposit from.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var (
		threshold uint
		rule      string
		initial   coin.Amount
		funds     coin.Amount
	)
	genFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	genFlags.UintVar(&threshold, "threshold", 1, "number of signatures compared against the execution rule")
	genFlags.StringVar(&rule, "rule", string(approval.RuleExceed), "execution rule, exceed or reach")
	genFlags.Var(&initial, "balance", "initial balance of the wallet")
	genFlags.Var(&funds, "cash", "cash account balance of every owner")
	if err := genFlags.Parse(args); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	var owners []treasury.Address
	for _, raw := range genFlags.Args() {
		addr, err := treasury.ParseAddress(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "owner %q", raw)
		}
		owners = append(owners, addr)
	}
	if len(owners) == 0 {
		addr, keys, err := GenerateOwnerKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
		owners = append(owners, addr)
	}

	state := AppState{
		Wallet: approval.Genesis{
			Owners:         owners,
			Threshold:      uint32(threshold),
			ExecutionRule:  rule,
			InitialBalance: initial,
		},
	}
	if funds > 0 {
		for _, o := range owners {
			state.Cash = append(state.Cash, cash.GenesisAccount{Address: o, Amount: funds})
		}
	}

	// Fail early, tendermint would only report it when the chain starts.
	bz, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	var opts treasury.Options
	if err := json.Unmarshal(bz, &opts); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return bz, nil
}

func validateOptions(opts treasury.Options) error {
	return Initializers().FromGenesis(opts, store.MemStore())
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	dataDir := filepath.Join(home, "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create %s: %s", dataDir, err)
	}
	db, err := iavl.NewCommitStore(dataDir, Name)
	if err != nil {
		return nil, err
	}
	application, err := NewWallet(db, debug)
	if err != nil {
		return nil, err
	}
	return application.WithLogger(logger), nil
}

// DecodeBlockTx is the server.TxDecoder of the wallet.
func DecodeBlockTx(raw []byte) (interface{}, error) {
	return DecodeTx(raw)
}

type output struct {
	PubKey crypto.PublicKey  `json:"pub_key"`
	Secret crypto.PrivateKey `json:"secret"`
	Addr   treasury.Address  `json:"address"`
}

// GenerateOwnerKey returns the address of a new key,
// along with a json representation of the keys.
func GenerateOwnerKey() (treasury.Address, string, error) {
	key := crypto.GenPrivateKey()
	out := output{PubKey: key.PublicKey(), Secret: key, Addr: key.Address()}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return out.Addr, string(keys), nil
}
