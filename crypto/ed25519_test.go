package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	priv := GenPrivateKey()
	pub := priv.PublicKey()
	require.NoError(t, pub.Validate())

	msg := []byte("approve 1")
	sig := priv.Sign(msg)
	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("approve 2"), sig))

	other := GenPrivateKey().PublicKey()
	assert.False(t, other.Verify(msg, sig))
	assert.False(t, pub.Verify(msg, sig[:10]))
}

func TestSeedIsDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := PrivateKeyFromSeed(seed)
	require.NoError(t, err)
	b, err := PrivateKeyFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.Address(), b.Address())
	assert.NoError(t, a.Address().Validate())

	_, err = PrivateKeyFromSeed([]byte{1, 2})
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestDeriveKey(t *testing.T) {
	master := bytes.Repeat([]byte{1}, 64)

	a, err := DeriveKey(master, "m/44'/234'/0'")
	require.NoError(t, err)
	b, err := DeriveKey(master, "m/44'/234'/1'")
	require.NoError(t, err)
	assert.False(t, a.Address().Equals(b.Address()))

	again, err := DeriveKey(master, "m/44'/234'/0'")
	require.NoError(t, err)
	assert.Equal(t, a, again)

	_, err = DeriveKey(master, "not a path")
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
