package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/quorum/errors"
)

const (
	// DefaultFreeListSize is the size we hold for free node in btree
	DefaultFreeListSize = btree.DefaultFreeListSize
)

// BTreeCacheable adds a btree backed savepoint to a KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a savepoint over the store. Changes reach the store
// only when the savepoint is written.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.KVStore, nil)
}

// MemStore returns an in-memory store without a backing database. All data
// lives in the btree of the returned cache.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e, nil)
}

// batcher is the destination of a savepoint.
type batcher interface {
	NewBatch() Batch
}

// BTreeCacheWrap keeps pending changes in a btree, one entry per key, on
// top of a read only parent. Reads see the pending changes first.
type BTreeCacheWrap struct {
	bt   *btree.BTree
	free *btree.FreeList
	back ReadOnlyKVStore
	dest batcher
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap creates a savepoint reading from back and writing to a
// batch of dest. free may be nil, pass an existing list to share nodes
// between nested savepoints.
func NewBTreeCacheWrap(back ReadOnlyKVStore, dest batcher, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:   btree.NewWithFreeList(2, free),
		free: free,
		back: back,
		dest: dest,
	}
}

// CacheWrap layers another savepoint on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b, b.free)
}

// NewBatch returns a batch that applies its operations to this savepoint
// once written.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending changes, in key order, into a single batch of
// the destination and clears the savepoint. Pending changes are dropped
// even if the write fails.
func (b BTreeCacheWrap) Write() error {
	defer b.Discard()

	batch := b.dest.NewBatch()
	var err error
	b.bt.Ascend(func(i btree.Item) bool {
		switch t := i.(type) {
		case setItem:
			err = batch.Set(t.key, t.value)
		case deletedItem:
			err = batch.Delete(t.key)
		default:
			err = errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", i)
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	return batch.Write()
}

// Discard drops all pending changes. The savepoint can be reused.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

// Pending returns the number of keys changed since the last write.
func (b BTreeCacheWrap) Pending() int {
	return b.bt.Len()
}

// Set records a new value. Stores cannot keep nil values, so nil is
// rejected here rather than when the savepoint is written.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	if value == nil {
		return errors.Wrapf(errors.ErrDatabase, "nil value at %X", key)
	}
	b.bt.ReplaceOrInsert(newSetItem(key, value))
	return nil
}

// Delete records a removal.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(newDeletedItem(key))
	return nil
}

// Get reads from btree if there, else backing store
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	res := b.bt.Get(bkey{key})
	if res != nil {
		switch t := res.(type) {
		case setItem:
			return t.value, nil
		case deletedItem:
			return nil, nil
		default:
			return nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", res)
		}
	}
	return b.back.Get(key)
}

// Has reads from btree if there, else backing store
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	res := b.bt.Get(bkey{key})
	if res != nil {
		switch res.(type) {
		case setItem:
			return true, nil
		case deletedItem:
			return false, nil
		default:
			return false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", res)
		}
	}
	return b.back.Has(key)
}

// Iterator over a domain of keys in ascending order.
// Combines results from btree and backing store
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(ascendBtree(b.bt, start, end), parent, true)
}

// ReverseIterator over a domain of keys in descending order.
// Combines results from btree and backing store
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(descendBtree(b.bt, start, end), parent, false)
}

/////////////////////////////////////////////////////////
// Items to write to btree

// we enforce all data in our btree implements keyer so we
// can compare nicely
type keyer interface {
	Key() []byte
}

// bkey implements keyer and btree.Item
// and may be used for queries or embedded in data to store
type bkey struct {
	key []byte
}

var _ keyer = bkey{}
var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than first
//
// panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

type deletedItem struct {
	bkey
}

func newDeletedItem(key []byte) deletedItem {
	return deletedItem{bkey{key}}
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey{key}, value}
}
