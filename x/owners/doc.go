/*
Package owners implements the immutable set of identities allowed to request
and approve transfers, together with the approval threshold.

The registry is created once, validated on creation and written to the store
at genesis. There is no API to change it afterwards.
*/
package owners
