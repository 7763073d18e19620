package quorumtest

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
)

// Transfer is a single invocation of a transfer capability.
type Transfer struct {
	To    quorum.Address
	Value coin.Amount
	Data  []byte
}

// Transferer records every transfer request and returns Err for each of
// them. Before, when set, is called first and can write to the store or
// call back into the engine.
type Transferer struct {
	Err       error
	Before    func(ctx context.Context, db quorum.KVStore) error
	Transfers []Transfer
}

// Transfer implements the transfer capability.
func (t *Transferer) Transfer(ctx context.Context, db quorum.KVStore, to quorum.Address, value coin.Amount, data []byte) error {
	t.Transfers = append(t.Transfers, Transfer{To: to, Value: value, Data: data})
	if t.Before != nil {
		if err := t.Before(ctx, db); err != nil {
			return err
		}
	}
	return t.Err
}

// Calls returns how many times the capability was invoked.
func (t *Transferer) Calls() int {
	return len(t.Transfers)
}
