/*
Package app assembles the wallet into a tendermint ABCI application.

Transactions are amino encoded and carry a single message plus the signature
of their sender. Each transaction runs in its own cache wrap of the block
state and is written only if it succeeds, so a failing transaction never
leaves partial changes behind. Queries are answered from the last committed
state and return JSON.
*/
package app
