/*
Package cash keeps the balances of the vault's currency and moves value
between accounts.

Balances live in the same KVStore as the vault state. The Controller
implements the transfer capability used by the multisig engine: it moves
value out of the vault account. Because the transfer writes into the same
store, a failed execution rolls back both the ledger change and the balance
change together.

Accounts can be marked as refusing incoming transfers. A transfer to such an
account fails the same way a destination contract rejecting a payment would.
*/
package cash
