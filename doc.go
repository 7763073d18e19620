/*
Package quorum defines the interfaces used throughout the vault: identities,
storage, genesis options, events and the logger carried in a context.

A vault is a shared custodial account controlled by a set of signers. Any
value transfer must collect a minimum number of independent confirmations
before it is released. The state machine lives in x/multisig, value movement
in x/cash and the host runtime that serializes and commits operations in app.
*/
package quorum
