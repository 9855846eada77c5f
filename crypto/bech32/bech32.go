// Package bech32 renders binary payloads, such as addresses, in the bech32
// human friendly encoding.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/treasury/errors"
)

// Decode converts given bech32 encoded representation into raw payload and a
// human readable part.
func Decode(raw string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInvalidInput, "convert bits")
	}
	return hrp, payload, nil
}

// Encode converts given bytes into bech32 encoded representation using hrp as
// the human readable part.
func Encode(hrp string, payload []byte) (string, error) {
	if hrp == "" {
		return "", errors.ErrInvalidInput.New("empty human readable part")
	}
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, "convert bits")
	}
	raw, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return raw, nil
}
