package app

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// CommitStore handles loading from a CommitKVStore and committing changes
// made by a single operation.
type CommitStore struct {
	committed quorum.CommitKVStore
}

// NewCommitStore loads the latest version of the store.
func NewCommitStore(store quorum.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{committed: store}, nil
}

// CommitInfo returns the current version and hash.
func (cs *CommitStore) CommitInfo() (quorum.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Apply runs fn against a cache of the committed state. If fn succeeds the
// cache is written and the store is committed, otherwise the cache is
// discarded and nothing is persisted. When writing or committing fails, the
// working state is rolled back to the last commit.
func (cs *CommitStore) Apply(fn func(db quorum.CacheableKVStore) error) (quorum.CommitID, error) {
	cache := cs.committed.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return quorum.CommitID{}, err
	}
	id, err := cs.persist(cache)
	if err != nil {
		cs.committed.Rollback()
		return quorum.CommitID{}, err
	}
	return id, nil
}

func (cs *CommitStore) persist(cache quorum.KVCacheWrap) (id quorum.CommitID, err error) {
	defer errors.Recover(&err)

	if err := cache.Write(); err != nil {
		return id, errors.Wrap(err, "write cache")
	}
	return cs.committed.Commit()
}

// View runs fn against a read only view of the committed state.
func (cs *CommitStore) View(fn func(db quorum.ReadOnlyKVStore) error) error {
	cache := cs.committed.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}
