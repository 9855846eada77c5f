package treasury

import (
	"context"
	"encoding/json"

	cmn "github.com/tendermint/tendermint/libs/common"
)

// Msg is the content of a transaction. Each message is routed by its path to
// the handler registered for it.
type Msg interface {
	// Path returns the routing path for this message
	Path() string

	// Validate performs stateless checks of the message content
	Validate() error
}

// Tx represent an authenticated transaction carrying a single message.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)

	// Signer returns the address that authorized this transaction.
	// Only set once the signature was verified.
	Signer() Address
}

// Handler is a function that can process a single message type.
type Handler interface {
	Check(ctx context.Context, store KVStore, tx Tx) error
	Deliver(ctx context.Context, store CacheableKVStore, tx Tx) (*DeliverResult, error)
}

// DeliverResult captures any non-error abci result
// to make sure people use error returns for errors
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// Tags are the observations emitted while processing the message
	Tags []cmn.KVPair
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(path string, h Handler)
}

// QueryHandler answers read only requests against the committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, data []byte) ([]byte, error)
}

// QueryRouter allows query handlers to register under a path.
type QueryRouter interface {
	Register(path string, h QueryHandler)
	Handler(path string) QueryHandler
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
