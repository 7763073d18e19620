package store

import (
	"bytes"
	"testing"
)

/*
TestSuite provides methods that can be called in package-specific test code.
We just customize the store being tested (pass in constructor), the rest of
the logic is generic to the KVStore interface.

This removes duplication between btree_test.go and iavl/adapter_test.go.
*/
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running against stores made by constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache
//
// Other tests should handle deletes, setting same value,
// iterating over ranges, and general fuzzing
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	// make sure the store is empty at start but returns results
	// that are written to it
	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	mustNil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	s.AssertGetHas(t, cache, k2, nil, false)
	mustNil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer...
	mustNil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	s.AssertGetHas(t, c2, k, v, true)
	mustNil(t, c2.Set(k3, v3))
	c2.Discard()

	// and commit another
	c3 := base.CacheWrap()
	s.AssertGetHas(t, c3, k2, v2, true)
	mustNil(t, c3.Delete(k))
	mustNil(t, c3.Write())

	// make sure it commits proper
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
	s.AssertGetHas(t, base, k3, nil, false)
}

// CacheConflicts checks that we can handle overwriting values and deleting
// underlying values.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	mustNil(t, base.Set([]byte("a"), []byte("1")))
	mustNil(t, base.Set([]byte("b"), []byte("2")))

	child := base.CacheWrap()
	mustNil(t, child.Set([]byte("a"), []byte("11")))
	mustNil(t, child.Delete([]byte("b")))
	mustNil(t, child.Set([]byte("c"), []byte("3")))

	// parent is unaffected until write
	s.AssertGetHas(t, base, []byte("a"), []byte("1"), true)
	s.AssertGetHas(t, base, []byte("b"), []byte("2"), true)
	s.AssertGetHas(t, base, []byte("c"), nil, false)

	s.AssertGetHas(t, child, []byte("a"), []byte("11"), true)
	s.AssertGetHas(t, child, []byte("b"), nil, false)
	s.AssertGetHas(t, child, []byte("c"), []byte("3"), true)

	mustNil(t, child.Write())
	s.AssertGetHas(t, base, []byte("a"), []byte("11"), true)
	s.AssertGetHas(t, base, []byte("b"), nil, false)
	s.AssertGetHas(t, base, []byte("c"), []byte("3"), true)
}

// Iteration checks that a cache wrap merges its own writes and deletes with
// the parent content, in both directions.
func (s *TestSuite) Iteration(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, k := range []string{"k1", "k3", "k5", "k7"} {
		mustNil(t, base.Set([]byte(k), []byte("base-"+k)))
	}
	cache := base.CacheWrap()
	mustNil(t, cache.Set([]byte("k2"), []byte("cache-k2")))
	mustNil(t, cache.Set([]byte("k3"), []byte("cache-k3")))
	mustNil(t, cache.Delete([]byte("k5")))

	want := []Model{
		Pair([]byte("k1"), []byte("base-k1")),
		Pair([]byte("k2"), []byte("cache-k2")),
		Pair([]byte("k3"), []byte("cache-k3")),
		Pair([]byte("k7"), []byte("base-k7")),
	}

	iter, err := cache.Iterator(nil, nil)
	mustNil(t, err)
	s.AssertIterates(t, iter, want)

	reversed := make([]Model, len(want))
	for i, m := range want {
		reversed[len(want)-1-i] = m
	}
	iter, err = cache.ReverseIterator(nil, nil)
	mustNil(t, err)
	s.AssertIterates(t, iter, reversed)

	// bounded range, end is exclusive
	iter, err = cache.Iterator([]byte("k2"), []byte("k7"))
	mustNil(t, err)
	s.AssertIterates(t, iter, want[1:3])
}

// AssertGetHas makes sure that both Get and Has return expected values.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	mustNil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("key %q: want %q, got %q", key, val, got)
	}
	exists, err := kv.Has(key)
	mustNil(t, err)
	if exists != has {
		t.Fatalf("key %q: want has=%v", key, has)
	}
}

// AssertIterates consumes the iterator and compares all entries.
func (s *TestSuite) AssertIterates(t testing.TB, iter Iterator, want []Model) {
	t.Helper()
	defer iter.Close()

	var got []Model
	for ; iter.Valid(); mustNil(t, iter.Next()) {
		got = append(got, Pair(iter.Key(), iter.Value()))
	}
	if len(got) != len(want) {
		t.Fatalf("want %d entries, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if !bytes.Equal(want[i].Key, got[i].Key) || !bytes.Equal(want[i].Value, got[i].Value) {
			t.Fatalf("entry %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func mustNil(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
}
