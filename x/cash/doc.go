/*
Package cash keeps the per-address accounts funds come from and go to.

Depositing into the wallet withdraws from the depositor cash account, and an
executed wallet transaction credits the cash account of its recipient. The
balance of an account may never go below zero or above the maximum amount.
*/
package cash
