package cash

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet is the state of a single account.
type Wallet struct {
	Balance coin.Amount
	// RejectIncoming makes every transfer to this account fail.
	RejectIncoming bool
}

// Bucket is a type-safe wrapper around orm.Bucket, keyed by address.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with default name
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName)}
}

// Get returns the wallet stored under given address. A missing account is
// an empty wallet.
func (b Bucket) Get(db quorum.ReadOnlyKVStore, addr quorum.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, err
	}
}

// Save stores the wallet under given address.
func (b Bucket) Save(db quorum.KVStore, addr quorum.Address, w *Wallet) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "wallet address")
	}
	return b.Put(db, addr, w)
}
