package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/iov-one/treasury/errors"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHeight = "height"
)

// TxDecoder turns raw transaction bytes found in a block into a value
// that can be serialized to JSON.
type TxDecoder func(raw []byte) (interface{}, error)

// BlockView is the JSON representation of a block, with each
// transaction decoded by the application.
type BlockView struct {
	ChainID string        `json:"chain_id"`
	Height  int64         `json:"height"`
	Time    string        `json:"time"`
	AppHash string        `json:"app_hash"`
	Txs     []interface{} `json:"txs"`
}

func parseGetBlockArgs(args []string) (string, int64, error) {
	if len(args) == 0 {
		return "", 0, errors.Wrap(errors.ErrInvalidInput, "usage: cmd getblock <path to blockstore.db> [-height=H]")
	}
	var height int64
	getBlockFlags := flag.NewFlagSet("getblock", flag.ContinueOnError)
	getBlockFlags.Int64Var(&height, flagHeight, 0, "height of the block to extract (default latest)")
	if err := getBlockFlags.Parse(args[1:]); err != nil {
		return "", 0, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return args[0], height, nil
}

// GetBlockCmd extracts a block from a blockstore.db and writes it as json
// to out. It takes the last block unless -height is explicitly specified.
func GetBlockCmd(decode TxDecoder, logger log.Logger, out io.Writer, args []string) error {
	dbPath, height, err := parseGetBlockArgs(args)
	if err != nil {
		return err
	}
	db, err := openDb(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := blockchain.NewBlockStore(db)
	if height == 0 {
		height = store.Height()
	}
	logger.Debug("Loading block", "height", height, "db", dbPath)
	return printBlock(store, decode, out, height)
}

func openDb(path string) (dbm.DB, error) {
	path = strings.TrimSuffix(filepath.Clean(path), string(filepath.Separator))
	if !strings.HasSuffix(path, ".db") {
		return nil, errors.Wrap(errors.ErrInvalidInput, "database directory must end with .db")
	}
	dir, name := filepath.Split(strings.TrimSuffix(path, ".db"))
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open block store: %s", err)
	}
	return db, nil
}

func printBlock(store *blockchain.BlockStore, decode TxDecoder, out io.Writer, height int64) error {
	block := store.LoadBlock(height)
	if block == nil {
		return errors.Wrapf(errors.ErrNotFound, "no block for height: %d", height)
	}
	txs := make([][]byte, 0, len(block.Data.Txs))
	for _, tx := range block.Data.Txs {
		txs = append(txs, tx)
	}
	view, err := NewBlockView(block.ChainID, block.Height, block.Time.UTC().String(), block.AppHash, txs, decode)
	if err != nil {
		return err
	}
	js, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "serialize block: %s", err)
	}
	_, err = fmt.Fprintln(out, string(js))
	return err
}

// NewBlockView decodes every raw transaction of a block. A transaction
// that does not decode fails the whole view.
func NewBlockView(chainID string, height int64, time string, appHash []byte, txs [][]byte, decode TxDecoder) (*BlockView, error) {
	view := &BlockView{
		ChainID: chainID,
		Height:  height,
		Time:    time,
		AppHash: fmt.Sprintf("%X", appHash),
		Txs:     make([]interface{}, 0, len(txs)),
	}
	for i, raw := range txs {
		tx, err := decode(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "tx %d", i)
		}
		view.Txs = append(view.Txs, tx)
	}
	return view, nil
}
