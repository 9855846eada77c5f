package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/store/iavl"
)

// CommitKVStore opens the leveldb backed iavl store the daemon uses, in a
// temporary directory. Call cleanup to remove the directory.
func CommitKVStore(t testing.TB) (db treasury.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "treasury-")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	s, err := iavl.NewCommitStore(dbpath, "db")
	if err != nil {
		os.RemoveAll(dbpath)
		t.Fatalf("cannot open store: %s", err)
	}
	return s, func() { os.RemoveAll(dbpath) }
}
