package app

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyCommitStore fails the commit when fail is set.
type flakyCommitStore struct {
	iavl.CommitStore
	fail func() (quorum.CommitID, error)
}

func (s *flakyCommitStore) Commit() (quorum.CommitID, error) {
	if s.fail != nil {
		fail := s.fail
		s.fail = nil
		return fail()
	}
	return s.CommitStore.Commit()
}

func TestApplyRollsBackFailedCommit(t *testing.T) {
	cases := map[string]func() (quorum.CommitID, error){
		"commit error": func() (quorum.CommitID, error) {
			return quorum.CommitID{}, errors.Wrap(errors.ErrDatabase, "disk full")
		},
		"commit panic": func() (quorum.CommitID, error) {
			panic("boom")
		},
	}
	for name, fail := range cases {
		t.Run(name, func(t *testing.T) {
			db := &flakyCommitStore{CommitStore: iavl.MockCommitStore()}
			cs, err := NewCommitStore(db)
			require.NoError(t, err)

			set := func(key string) func(quorum.CacheableKVStore) error {
				return func(db quorum.CacheableKVStore) error {
					return db.Set([]byte(key), []byte("x"))
				}
			}

			_, err = cs.Apply(set("first"))
			require.NoError(t, err)

			db.fail = fail
			_, err = cs.Apply(set("lost"))
			require.Error(t, err)

			id, err := cs.Apply(set("second"))
			require.NoError(t, err)
			assert.Equal(t, int64(2), id.Version)

			require.NoError(t, cs.View(func(db quorum.ReadOnlyKVStore) error {
				for key, want := range map[string]bool{"first": true, "lost": false, "second": true} {
					has, err := db.Has([]byte(key))
					require.NoError(t, err)
					assert.Equal(t, want, has, key)
				}
				return nil
			}))
		})
	}
}

func TestApplyDiscardsFailedOperation(t *testing.T) {
	cs, err := NewCommitStore(iavl.MockCommitStore())
	require.NoError(t, err)

	_, err = cs.Apply(func(db quorum.CacheableKVStore) error {
		if err := db.Set([]byte("k"), []byte("v")); err != nil {
			return err
		}
		return errors.ErrState
	})
	assert.True(t, errors.ErrState.Is(err), "%+v", err)

	info, err := cs.CommitInfo()
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Version)
	require.NoError(t, cs.View(func(db quorum.ReadOnlyKVStore) error {
		has, err := db.Has([]byte("k"))
		require.NoError(t, err)
		assert.False(t, has)
		return nil
	}))
}
