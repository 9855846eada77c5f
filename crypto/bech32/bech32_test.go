package bech32

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/treasury/errors"
)

func TestEncodeDecode(t *testing.T) {
	// bech32 -e -h tiov 746573742d7061796c6f6164
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

	want, err := hex.DecodeString("746573742d7061796c6f6164")
	if err != nil {
		t.Fatal(err)
	}

	hrp, payload, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if hrp != "tiov" {
		t.Fatalf("unexpected hrp %q", hrp)
	}
	if !bytes.Equal(want, payload) {
		t.Fatalf("invalid decode: %X", payload)
	}

	raw, err := Encode(hrp, payload)
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	if raw != enc {
		t.Fatalf("invalid encoding: %q", raw)
	}
}

func TestEncodeRequiresPrefix(t *testing.T) {
	if _, err := Encode("", []byte{1}); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want invalid input, got %+v", err)
	}
}

func TestDecodeBadChecksum(t *testing.T) {
	if _, _, err := Decode("tiov1w3jhxapdwpshjmr0v9jqymqq4z"); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("want invalid input, got %+v", err)
	}
}
