/*
Package treasury defines the interfaces shared by the packages of a shared
wallet whose funds are released only once a quorum of owners approved a
transfer.

It holds the identity type (Address), the storage interfaces every extension
works against, the message and handler interfaces used by the application
router and the context helpers.

We pass context through context.Context between app and handlers. There should
exist two functions for every XYZ of type T that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, to avoid lower-level modules
overwriting the value (eg. height, chain id).
*/
package treasury
