package server

import (
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	addr, debug, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "tcp://localhost:26658", addr)
	assert.False(t, debug)

	addr, debug, err = parseFlags([]string{"-bind", "unix:///tmp/treasury.sock", "-debug"})
	require.NoError(t, err)
	assert.Equal(t, "unix:///tmp/treasury.sock", addr)
	assert.True(t, debug)

	_, _, err = parseFlags([]string{"-port", "80"})
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestParseGetBlockArgs(t *testing.T) {
	path, height, err := parseGetBlockArgs([]string{"data/blockstore.db", "-height", "7"})
	require.NoError(t, err)
	assert.Equal(t, "data/blockstore.db", path)
	assert.Equal(t, int64(7), height)

	_, height, err = parseGetBlockArgs([]string{"blockstore.db"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), height)

	_, _, err = parseGetBlockArgs(nil)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestOpenDbRequiresSuffix(t *testing.T) {
	_, err := openDb("data/blockstore")
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestNewBlockView(t *testing.T) {
	decode := func(raw []byte) (interface{}, error) {
		if len(raw) == 0 {
			return nil, errors.ErrInvalidInput.New("empty tx")
		}
		return string(raw), nil
	}

	view, err := NewBlockView("test-chain", 12, "now", []byte{0xca, 0xfe}, [][]byte{[]byte("one"), []byte("two")}, decode)
	require.NoError(t, err)
	assert.Equal(t, "CAFE", view.AppHash)
	assert.Equal(t, []interface{}{"one", "two"}, view.Txs)

	_, err = NewBlockView("test-chain", 12, "now", nil, [][]byte{[]byte("one"), nil}, decode)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
