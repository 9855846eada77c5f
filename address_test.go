package treasury

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/weavetest/assert"
)

func TestAddressValidate(t *testing.T) {
	cases := map[string]struct {
		addr    Address
		wantErr *errors.Error
	}{
		"valid":        {addr: NewAddress([]byte("alice")), wantErr: nil},
		"nil":          {addr: nil, wantErr: errors.ErrInvalidInput},
		"too short":    {addr: Address{1, 2, 3}, wantErr: errors.ErrInvalidInput},
		"zero address": {addr: make(Address, AddressLength), wantErr: errors.ErrInvalidInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.addr.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := NewAddress([]byte("bob"))

	raw, err := json.Marshal(addr)
	assert.Nil(t, err)

	var got Address
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	b32, err := addr.Bech32()
	assert.Nil(t, err)
	var fromBech Address
	assert.Nil(t, json.Unmarshal([]byte(`"bech32:`+b32+`"`), &fromBech))
	assert.Equal(t, addr, fromBech)
}

func TestParseAddressRejectsZero(t *testing.T) {
	zero := bytes.Repeat([]byte("00"), AddressLength)
	_, err := ParseAddress(string(zero))
	assert.IsErr(t, errors.ErrInvalidInput, err)

	_, err = ParseAddress("wat:1234")
	assert.IsErr(t, errors.ErrInvalidInput, err)
}

func TestAddressClone(t *testing.T) {
	a := NewAddress([]byte("carol"))
	c := a.Clone()
	c[0]++
	if a.Equals(c) {
		t.Fatal("clone shares memory")
	}
}
