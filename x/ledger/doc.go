/*
Package ledger implements the append-only, ordered record of requested
transfers.

Each entry is addressed by its index, assigned at creation as the current
length of the ledger. Entries are never deleted. Only the signature count and
the executed flag of an entry change after creation, and executed never goes
back to false.
*/
package ledger
