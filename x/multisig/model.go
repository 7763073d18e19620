package multisig

import (
	"encoding/binary"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

const (
	// MinSigners is the smallest number of signers a registry can hold.
	MinSigners = 3

	// InitialRequiredConfirmations is the quorum of a freshly initialized
	// registry.
	InitialRequiredConfirmations = 2

	// RegistryBucketName is where the signer registry is stored.
	RegistryBucketName = "registry"
	// TxBucketName is where the ledger entries are stored.
	TxBucketName = "txs"
	// ConfirmationBucketName is where the confirmation markers are stored.
	ConfirmationBucketName = "confirms"
)

var registryKey = []byte("signers")

// Registry is the set of identities allowed to operate the vault together
// with the quorum required to execute a transaction.
type Registry struct {
	Signers               []quorum.Address
	RequiredConfirmations uint32
}

var _ orm.Validater = (*Registry)(nil)

// Validate ensures the registry holds at least three distinct, non zero
// signers and a quorum that can be reached.
func (r *Registry) Validate() error {
	if len(r.Signers) < MinSigners {
		return errors.Wrapf(ErrSignerFloor, "%d signers", len(r.Signers))
	}
	if r.RequiredConfirmations < 1 || int(r.RequiredConfirmations) > len(r.Signers) {
		return errors.Wrapf(ErrInvalidRequirement,
			"%d required with %d signers", r.RequiredConfirmations, len(r.Signers))
	}
	for i, s := range r.Signers {
		if s.IsZero() {
			return errors.Wrapf(ErrInvalidAddress, "signer #%d", i)
		}
		if err := s.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidAddress, "signer #%d: %s", i, err)
		}
		for _, other := range r.Signers[:i] {
			if s.Equals(other) {
				return errors.Wrapf(ErrDuplicate, "signer %s", s)
			}
		}
	}
	return nil
}

// index returns the position of the identity in the signers list or -1.
func (r *Registry) index(a quorum.Address) int {
	for i, s := range r.Signers {
		if s.Equals(a) {
			return i
		}
	}
	return -1
}

// Transaction is a single ledger entry. Only Executed and Confirmations
// change after the entry was created.
type Transaction struct {
	To            quorum.Address
	Value         coin.Amount
	Data          []byte
	Executed      bool
	Confirmations uint32
}

// TxID is the binary key of a ledger entry.
func TxID(id uint64) []byte {
	return orm.EncodeSequence(id)
}

// RegistryBucket holds the single registry record.
type RegistryBucket struct {
	orm.Bucket
}

// NewRegistryBucket initializes a RegistryBucket with default name.
func NewRegistryBucket() RegistryBucket {
	return RegistryBucket{Bucket: orm.NewBucket(RegistryBucketName)}
}

// Get returns the stored registry. ErrNotInitialized is returned when the
// vault was not initialized yet.
func (b RegistryBucket) Get(db quorum.ReadOnlyKVStore) (*Registry, error) {
	var r Registry
	switch err := b.One(db, registryKey, &r); {
	case err == nil:
		return &r, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(ErrNotInitialized, "registry")
	default:
		return nil, err
	}
}

// Exists returns true if the registry was stored.
func (b RegistryBucket) Exists(db quorum.ReadOnlyKVStore) (bool, error) {
	return b.Has(db, registryKey)
}

// Save validates and stores the registry.
func (b RegistryBucket) Save(db quorum.KVStore, r *Registry) error {
	return b.Put(db, registryKey, r)
}

// TxBucket holds the ledger entries, keyed by a sequential id.
type TxBucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewTxBucket initializes a TxBucket with default name.
func NewTxBucket() TxBucket {
	return TxBucket{
		Bucket: orm.NewBucket(TxBucketName),
		seq:    orm.NewSequence(TxBucketName, "id"),
	}
}

// Create stores a new entry under the next free id. The first id is 0.
func (b TxBucket) Create(db quorum.KVStore, tx *Transaction) (uint64, error) {
	next, err := b.seq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "cannot acquire ID")
	}
	id := next - 1
	if err := b.Put(db, TxID(id), tx); err != nil {
		return 0, err
	}
	return id, nil
}

// Get returns the entry with given id.
func (b TxBucket) Get(db quorum.ReadOnlyKVStore, id uint64) (*Transaction, error) {
	var tx Transaction
	if err := b.One(db, TxID(id), &tx); err != nil {
		return nil, errors.Wrapf(err, "transaction %d", id)
	}
	return &tx, nil
}

// Save overwrites an existing entry.
func (b TxBucket) Save(db quorum.KVStore, id uint64, tx *Transaction) error {
	return b.Put(db, TxID(id), tx)
}

// Count returns the number of entries ever created.
func (b TxBucket) Count(db quorum.ReadOnlyKVStore) (uint64, error) {
	return b.seq.Latest(db)
}

// ConfirmationBucket holds one marker per confirming signer and
// transaction. Keys are the 8 byte transaction id followed by the signer
// address.
type ConfirmationBucket struct {
	orm.Bucket
}

// NewConfirmationBucket initializes a ConfirmationBucket with default name.
func NewConfirmationBucket() ConfirmationBucket {
	return ConfirmationBucket{Bucket: orm.NewBucket(ConfirmationBucketName)}
}

func confirmationKey(id uint64, who quorum.Address) []byte {
	key := make([]byte, 8+len(who))
	binary.BigEndian.PutUint64(key, id)
	copy(key[8:], who)
	return key
}

// IsConfirmed returns true if the identity confirmed the transaction.
func (b ConfirmationBucket) IsConfirmed(db quorum.ReadOnlyKVStore, id uint64, who quorum.Address) (bool, error) {
	return b.Has(db, confirmationKey(id, who))
}

// Confirm stores a confirmation marker.
func (b ConfirmationBucket) Confirm(db quorum.KVStore, id uint64, who quorum.Address) error {
	return b.SetRaw(db, confirmationKey(id, who), []byte{1})
}

// Revoke removes a confirmation marker.
func (b ConfirmationBucket) Revoke(db quorum.KVStore, id uint64, who quorum.Address) error {
	return b.Delete(db, confirmationKey(id, who))
}

// Confirmers returns all identities that confirmed the transaction, ordered
// by address.
func (b ConfirmationBucket) Confirmers(db quorum.ReadOnlyKVStore, id uint64) ([]quorum.Address, error) {
	keys, err := b.Keys(db, TxID(id))
	if err != nil {
		return nil, err
	}
	res := make([]quorum.Address, 0, len(keys))
	for _, k := range keys {
		res = append(res, quorum.Address(k[8:]))
	}
	return res, nil
}
