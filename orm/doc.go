/*
Package orm persists validated models in a KVStore.

Models are plain Go structs serialized with go-amino. A Bucket stores many
models of one kind under a common key prefix, a Singleton stores exactly one
model under a fixed key and a Sequence hands out strictly increasing integers.

Every model is validated before it is written, so invalid state never reaches
the store.
*/
package orm
