/*
Package crypto holds the ed25519 keys used to authenticate transactions.

The address of a key is derived from the public key bytes with
treasury.NewAddress. Keys can be generated at random, restored from a 32 byte
seed or derived from a master seed along a SLIP-0010 path.
*/
package crypto
