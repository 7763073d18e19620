package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB holding one type of model.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of this bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One loads the model stored under given key into dst. ErrNotFound is
// returned when there is no such key.
func (b Bucket) One(db quorum.ReadOnlyKVStore, key []byte, dst interface{}) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "db get")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return Unmarshal(raw, dst)
}

// Has returns true if any value is stored under given key.
func (b Bucket) Has(db quorum.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put validates and stores given model under the key.
func (b Bucket) Put(db quorum.KVStore, key []byte, model interface{}) error {
	if v, ok := model.(Validater); ok {
		if err := v.Validate(); err != nil {
			return errors.Wrapf(err, "invalid %s model", b.name)
		}
	}
	raw, err := Marshal(model)
	if err != nil {
		return err
	}
	return db.Set(b.DBKey(key), raw)
}

// SetRaw stores the raw value under given key without encoding. Use it for
// markers that carry no model.
func (b Bucket) SetRaw(db quorum.KVStore, key, value []byte) error {
	return db.Set(b.DBKey(key), value)
}

// Delete removes the value stored under given key.
func (b Bucket) Delete(db quorum.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Keys returns all keys within this bucket that start with given prefix, in
// ascending order. Returned keys have the bucket prefix removed.
func (b Bucket) Keys(db quorum.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	start := b.DBKey(prefix)
	iter, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(err, "iterator")
	}
	defer iter.Close()

	var keys [][]byte
	for iter.Valid() {
		k := iter.Key()
		key := make([]byte, len(k)-len(b.prefix))
		copy(key, k[len(b.prefix):])
		keys = append(keys, key)
		if err := iter.Next(); err != nil {
			return nil, errors.Wrap(err, "iterator next")
		}
	}
	return keys, nil
}

// prefixEnd returns the first key that does not start with given prefix, or
// nil when there is no such key.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
