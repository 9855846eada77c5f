package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/treasury/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// AppStateKey is the key in the json genesis file for all
	// app-specific state
	AppStateKey = "app_state"

	// DirConfig is the subdirectory of home holding the tendermint
	// configuration.
	DirConfig = "config"
	// GenesisFile is the name of the tendermint genesis file.
	GenesisFile = "genesis.json"

	flagForce = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// InitCmd will initialize all files for tendermint, along with proper
// app_state. The genesis file must already exist, as created by
// `tendermint init`. An existing app_state is only replaced if -f is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	force := initFlags.Bool(flagForce, false, "overwrite an existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	genFile := filepath.Join(home, DirConfig, GenesisFile)
	if _, err := os.Stat(genFile); err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file %s, run tendermint init first", genFile)
	}

	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options, *force); err != nil {
		return err
	}
	logger.Info("App state written", "file", genFile)
	return nil
}

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "read genesis: %s", err)
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "parse genesis: %s", err)
	}

	if current := doc[AppStateKey]; len(current) > 0 && string(current) != "null" && !force {
		return errors.Wrap(errors.ErrImmutable, "genesis already contains app_state, use -f to overwrite")
	}
	doc[AppStateKey] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "serialize genesis: %s", err)
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write genesis: %s", err)
	}
	return nil
}
