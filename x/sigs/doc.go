/*
Package sigs authenticates transactions.

Every transaction carries a single ed25519 signature together with the public
key that created it and a sequence number. The signature covers the
transaction bytes, the chain id and the sequence, and the sequence of each
signer must grow by one with every transaction, so a signed transaction can
neither be replayed nor moved to another chain.
*/
package sigs
