package cash

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use quorum.Address, so address in hex, not base64
type GenesisAccount struct {
	Address        quorum.Address `json:"address"`
	Balance        coin.Amount    `json:"balance"`
	RejectIncoming bool           `json:"reject_incoming,omitempty"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ quorum.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts quorum.Options, kv quorum.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	bucket := NewBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		w := &Wallet{Balance: acct.Balance, RejectIncoming: acct.RejectIncoming}
		if err := bucket.Save(kv, acct.Address, w); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
	}
	return nil
}
