package events

import (
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/weavetest"
	"github.com/iov-one/treasury/weavetest/assert"
)

func TestEmitKeepsOrder(t *testing.T) {
	db := store.MemStore()
	log := NewLog()
	alice := weavetest.NewAddress()

	emitted := []Event{
		Deposited(alice, 100),
		Signed(alice, 0),
		Executed(alice, 0),
	}
	for i, e := range emitted {
		got, err := log.Emit(db, e)
		assert.Nil(t, err)
		assert.Equal(t, uint64(i), got.Seq)
	}

	all, err := log.All(db)
	assert.Nil(t, err)
	assert.Equal(t, len(emitted), len(all))
	for i, e := range all {
		assert.Equal(t, uint64(i), e.Seq)
		assert.Equal(t, emitted[i].Kind, e.Kind)
		assert.Equal(t, alice, e.Account)
	}
	assert.Equal(t, uint64(100), uint64(all[0].Value))

	tail, err := log.Since(db, 2)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(tail))
	assert.Equal(t, KindExecuted, tail[0].Kind)

	none, err := log.Since(db, 3)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(none))
}

func TestEmitDiscardedWithCache(t *testing.T) {
	db := store.MemStore()
	log := NewLog()
	alice := weavetest.NewAddress()

	_, err := log.Emit(db, Deposited(alice, 1))
	assert.Nil(t, err)

	cache := db.CacheWrap()
	_, err = log.Emit(cache, Signed(alice, 0))
	assert.Nil(t, err)
	n, err := log.Len(cache)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), n)
	cache.Discard()

	all, err := log.All(db)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(all))
	assert.Equal(t, KindDeposited, all[0].Kind)
}

func TestEmitRejectsInvalidEvents(t *testing.T) {
	cases := map[string]struct {
		event   Event
		wantErr *errors.Error
	}{
		"unknown kind": {
			event:   Event{Kind: "burned", Account: weavetest.NewAddress()},
			wantErr: errors.ErrInvalidModel,
		},
		"missing account": {
			event:   Signed(nil, 1),
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			_, err := NewLog().Emit(db, tc.event)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestTags(t *testing.T) {
	alice := weavetest.NewAddress()

	tags := Tags([]Event{Deposited(alice, 7), Executed(alice, 3)})
	assert.Equal(t, 6, len(tags))
	assert.Equal(t, "deposited", string(tags[0].Value))
	assert.Equal(t, alice.String(), string(tags[1].Value))
	assert.Equal(t, "value", string(tags[2].Key))
	assert.Equal(t, "7", string(tags[2].Value))
	assert.Equal(t, "executed", string(tags[3].Value))
	assert.Equal(t, "index", string(tags[5].Key))
	assert.Equal(t, "3", string(tags[5].Value))
}
