/*
Package multisig implements a vault controlled by a set of signers.

A registry keeps the list of signers and the number of confirmations a
transaction needs before it can be executed. Any signer can submit a
transaction that moves value out of the vault. Every signer can confirm or
revoke their confirmation of a pending transaction. Once a transaction
collected enough confirmations, any signer can execute it.

The registry always holds at least three distinct signers and the required
number of confirmations never exceeds the number of signers. Adding a signer
does not change the quorum. Removing a signer lowers the quorum only when it
would otherwise be impossible to reach.

The quorum is read when a transaction is executed, not when it is
submitted. Confirmations given by a signer that was removed later are still
counted.

Execution is atomic. The transaction is marked as executed before the
value is transferred, within a savepoint of the store. If the transfer
fails, the savepoint is discarded and the transaction stays pending.
*/
package multisig
