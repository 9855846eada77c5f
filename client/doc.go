/*
Package client talks to a treasury node over the tendermint RPC.

Client wraps a tendermint connection, either in process for tests or over
http, and provides the primitives to submit transactions, wait for them to
be committed and follow new blocks. On top of those it offers typed access to
the wallet queries and a SignAndCommit helper that takes care of the
signature sequence.
*/
package client
