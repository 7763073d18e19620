package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendBtree collects all cached items within [start, end) in ascending
// order. A nil bound means no bound.
func ascendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(i btree.Item) bool {
		items = append(items, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descendBtree collects the same domain as ascendBtree, in descending order.
func descendBtree(bt *btree.BTree, start, end []byte) []keyer {
	items := ascendBtree(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// mergeIterator combines the cached items with the parent iterator. Cached
// items shadow parent entries with the same key and deleted items hide them.
type mergeIterator struct {
	items     []keyer
	idx       int
	parent    Iterator
	ascending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, ascending bool) (*mergeIterator, error) {
	it := &mergeIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.skipDeleted(); err != nil {
		return nil, err
	}
	return it, nil
}

type source int

const (
	none source = iota
	us
	parent
	both
)

// first selects the iterator which holds the next key.
func (i *mergeIterator) first() source {
	usValid := i.idx < len(i.items)
	parValid := i.parent.Valid()
	switch {
	case !usValid && !parValid:
		return none
	case !parValid:
		return us
	case !usValid:
		return parent
	}
	cmp := bytes.Compare(i.items[i.idx].Key(), i.parent.Key())
	if !i.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return us
	case cmp > 0:
		return parent
	default:
		return both
	}
}

// skipDeleted advances over all deleted items, together with the parent
// entries they hide.
func (i *mergeIterator) skipDeleted() error {
	for {
		src := i.first()
		if src != us && src != both {
			return nil
		}
		if _, ok := i.items[i.idx].(deletedItem); !ok {
			return nil
		}
		i.idx++
		if src == both {
			if err := i.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// Valid implements Iterator and returns true iff it can be read
func (i *mergeIterator) Valid() bool {
	return i.first() != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
func (i *mergeIterator) Next() error {
	switch i.first() {
	case us:
		i.idx++
	case both:
		i.idx++
		if err := i.parent.Next(); err != nil {
			return err
		}
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		panic("advanced past the end")
	}
	return i.skipDeleted()
}

// Key returns the key of the cursor.
func (i *mergeIterator) Key() []byte {
	switch i.first() {
	case us, both:
		return i.items[i.idx].Key()
	case parent:
		return i.parent.Key()
	default:
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (i *mergeIterator) Value() []byte {
	switch i.first() {
	case us, both:
		return i.items[i.idx].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("advanced past the end")
	}
}

// Close releases the Iterator.
func (i *mergeIterator) Close() {
	i.parent.Close()
	i.items = nil
}
