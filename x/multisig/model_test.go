package multisig

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
)

func TestRegistryValidate(t *testing.T) {
	cases := map[string]struct {
		reg     Registry
		wantErr *errors.Error
	}{
		"valid": {
			reg: Registry{Signers: []quorum.Address{creator, alice, bob}, RequiredConfirmations: 3},
		},
		"too few signers": {
			reg:     Registry{Signers: []quorum.Address{creator, alice}, RequiredConfirmations: 1},
			wantErr: ErrSignerFloor,
		},
		"zero quorum": {
			reg:     Registry{Signers: []quorum.Address{creator, alice, bob}},
			wantErr: ErrInvalidRequirement,
		},
		"quorum above signer count": {
			reg:     Registry{Signers: []quorum.Address{creator, alice, bob}, RequiredConfirmations: 4},
			wantErr: ErrInvalidRequirement,
		},
		"duplicated signer": {
			reg:     Registry{Signers: []quorum.Address{creator, alice, creator}, RequiredConfirmations: 2},
			wantErr: ErrDuplicate,
		},
		"zero signer": {
			reg:     Registry{Signers: []quorum.Address{creator, alice, nil}, RequiredConfirmations: 2},
			wantErr: ErrInvalidAddress,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.reg.Validate())
		})
	}
}

func TestRegistryBucketRejectsInvalid(t *testing.T) {
	db := store.MemStore()
	b := NewRegistryBucket()
	err := b.Save(db, &Registry{Signers: []quorum.Address{alice}, RequiredConfirmations: 1})
	assert.IsErr(t, ErrSignerFloor, err)

	ok, err := b.Exists(db)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}

func TestTxBucketSequence(t *testing.T) {
	db := store.MemStore()
	b := NewTxBucket()

	for want := uint64(0); want < 3; want++ {
		id, err := b.Create(db, &Transaction{To: target, Value: 1})
		assert.Nil(t, err)
		assert.Equal(t, want, id)
	}
	n, err := b.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), n)
}

func TestConfirmationBucketIsolatesTransactions(t *testing.T) {
	db := store.MemStore()
	b := NewConfirmationBucket()

	assert.Nil(t, b.Confirm(db, 1, alice))
	assert.Nil(t, b.Confirm(db, 2, bob))
	assert.Nil(t, b.Confirm(db, 256, creator))

	got, err := b.Confirmers(db, 1)
	assert.Nil(t, err)
	assert.Equal(t, []quorum.Address{alice}, got)

	assert.Nil(t, b.Revoke(db, 1, alice))
	got, err = b.Confirmers(db, 1)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(got))

	ok, err := b.IsConfirmed(db, 256, creator)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
}
