/*
Package approval implements the signing workflow of the wallet.

Owners request transfers, which are appended to the ledger, and then sign
them one by one. Once the signature count satisfies the execution rule the
transfer is executed: the transaction is marked executed and the balance is
debited before the funds are handed to the Transferer. If the transfer
fails, every change made by that approval, including the signature itself,
is discarded.

Two execution rules exist. RuleExceed requires strictly more signatures than
the threshold and is the default. RuleReach executes as soon as the number
of signatures equals the threshold.
*/
package approval
