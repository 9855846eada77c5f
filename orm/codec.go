package orm

import (
	"github.com/iov-one/treasury/errors"
	amino "github.com/tendermint/go-amino"
)

// Model is implemented by every value persisted through this package.
type Model interface {
	Validate() error
}

// schemaVersion prefixes every serialized model. Besides tagging the layout,
// it keeps the encoding of an all-zero model from being empty, which the
// stores treat as a missing value.
const schemaVersion byte = 1

var cdc = amino.NewCodec()

// Marshal serializes a model into its binary form.
func Marshal(m Model) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "marshal %T: %s", m, err)
	}
	return append([]byte{schemaVersion}, raw...), nil
}

// Unmarshal loads the binary form into dst. dst must be a pointer.
func Unmarshal(raw []byte, dst Model) error {
	if len(raw) == 0 || raw[0] != schemaVersion {
		return errors.ErrInvalidModel.Newf("unknown schema for %T", dst)
	}
	if err := cdc.UnmarshalBinaryBare(raw[1:], dst); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "unmarshal %T: %s", dst, err)
	}
	return nil
}
