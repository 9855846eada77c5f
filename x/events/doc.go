/*
Package events is an append-only log of what happened to the wallet.

Each entry is numbered by a sequence, so reading the log back returns events
in emission order. The log lives in the same store as the state it describes:
events emitted into a cache wrap that is later discarded are gone with it.
*/
package events
