package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iov-one/treasury/app"
	"github.com/iov-one/treasury/commands/server"
	"github.com/iov-one/treasury/store/iavl"
	"github.com/tendermint/tendermint/libs/log"
	nm "github.com/tendermint/tendermint/node"
	rpctest "github.com/tendermint/tendermint/rpc/test"
)

// Runner is an interface that would allow us more flexibility in terms of
// types passed to the helper
type Runner interface {
	Run() int
}

// TestWithWallet starts an in process tendermint node running a wallet
// initialized from appState, waits for the first block and runs m. The
// callback receives the node before the tests run.
func TestWithWallet(appState json.RawMessage, cb func(*nm.Node), m Runner) int {
	config := rpctest.GetConfig()
	config.Moniker = "TreasuryClientTest"
	// IndexTags non-empty overrides IndexAllTags
	config.TxIndex.IndexTags = ""
	config.TxIndex.IndexAllTags = true

	gen := func([]string) (json.RawMessage, error) { return appState, nil }
	if err := server.InitCmd(gen, log.NewNopLogger(), config.RootDir, []string{"-f"}); err != nil {
		fmt.Printf("Cannot write genesis: %+v\n", err)
		return 1
	}
	wallet, err := app.NewWallet(iavl.MockCommitStore(), true)
	if err != nil {
		fmt.Printf("Cannot create wallet: %+v\n", err)
		return 1
	}

	n := rpctest.StartTendermint(wallet)
	cb(n)

	fmt.Println("Wait for first block...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h, err := NewLocalClient(n).WaitForNextBlock(ctx)

	// Run tests if tendermint started properly
	var code int
	if err == nil {
		fmt.Printf("Starting tests with block %d\n", h.Height)
		code = m.Run()
	} else {
		fmt.Printf("Failed to start tendermint: %s\n", err)
		code = 1
	}

	// and shut down proper at the end
	_ = n.Stop()
	n.Wait()
	return code
}
