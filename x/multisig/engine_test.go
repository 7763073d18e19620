package multisig

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
	"github.com/iov-one/quorum/x/cash"
)

var (
	creator = quorumtest.NewAddress(1)
	alice   = quorumtest.NewAddress(2)
	bob     = quorumtest.NewAddress(3)
	charlie = quorumtest.NewAddress(4)
	dave    = quorumtest.NewAddress(5)
	mallory = quorumtest.NewAddress(66)
	target  = quorumtest.NewAddress(99)
)

type fixture struct {
	db     quorum.CacheableKVStore
	engine *Engine
	bank   *quorumtest.Transferer
	events *quorumtest.EventRecorder
}

// newFixture returns an initialized vault with signers creator, alice and
// bob and a quorum of 2.
func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:     store.MemStore(),
		bank:   &quorumtest.Transferer{},
		events: &quorumtest.EventRecorder{},
	}
	f.engine = NewEngine(f.bank, f.events)
	if err := Initialize(context.Background(), f.db, creator, alice, bob); err != nil {
		t.Fatalf("cannot initialize: %+v", err)
	}
	return f
}

func (f *fixture) registry(t testing.TB) *Registry {
	t.Helper()
	reg, err := NewRegistryBucket().Get(f.db)
	assert.Nil(t, err)
	return reg
}

func (f *fixture) tx(t testing.TB, id uint64) *Transaction {
	t.Helper()
	tx, err := f.engine.Transaction(f.db, id)
	assert.Nil(t, err)
	return tx
}

func TestInitialize(t *testing.T) {
	cases := map[string]struct {
		prepare func(db quorum.KVStore)
		creator quorum.Address
		a, b    quorum.Address
		wantErr *errors.Error
	}{
		"valid": {
			creator: creator, a: alice, b: bob,
		},
		"first signer is zero": {
			creator: creator, a: nil, b: bob,
			wantErr: ErrInvalidAddress,
		},
		"second signer is all zero bytes": {
			creator: creator, a: alice, b: make(quorum.Address, 20),
			wantErr: ErrInvalidAddress,
		},
		"signer of invalid length": {
			creator: creator, a: alice, b: quorum.Address("short"),
			wantErr: ErrInvalidAddress,
		},
		"signers are equal": {
			creator: creator, a: alice, b: alice,
			wantErr: ErrDuplicate,
		},
		"creator is one of the signers": {
			creator: bob, a: alice, b: bob,
			wantErr: ErrDuplicate,
		},
		"already initialized": {
			prepare: func(db quorum.KVStore) {
				if err := Initialize(context.Background(), db, charlie, dave, mallory); err != nil {
					t.Fatalf("prepare: %+v", err)
				}
			},
			creator: creator, a: alice, b: bob,
			wantErr: ErrInitialized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.prepare != nil {
				tc.prepare(db)
			}
			err := Initialize(context.Background(), db, tc.creator, tc.a, tc.b)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %q, got %+v", tc.wantErr, err)
				}
				return
			}
			assert.Nil(t, err)

			reg, err := NewRegistryBucket().Get(db)
			assert.Nil(t, err)
			assert.Equal(t, []quorum.Address{creator, alice, bob}, reg.Signers)
			assert.Equal(t, uint32(2), reg.RequiredConfirmations)

			e := NewEngine(&quorumtest.Transferer{}, nil)
			n, err := e.TransactionCount(db)
			assert.Nil(t, err)
			assert.Equal(t, uint64(0), n)
		})
	}
}

func TestNotInitialized(t *testing.T) {
	e := NewEngine(&quorumtest.Transferer{}, nil)
	db := store.MemStore()

	_, err := e.IsSigner(db, alice)
	assert.IsErr(t, ErrNotInitialized, err)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = e.Submit(context.Background(), db, alice, target, 1, nil)
	assert.IsErr(t, ErrNotInitialized, err)
}

func TestQueries(t *testing.T) {
	f := newFixture(t)

	for _, s := range []quorum.Address{creator, alice, bob} {
		ok, err := f.engine.IsSigner(f.db, s)
		assert.Nil(t, err)
		assert.Equal(t, true, ok)
	}
	for _, s := range []quorum.Address{charlie, nil, make(quorum.Address, 20)} {
		ok, err := f.engine.IsSigner(f.db, s)
		assert.Nil(t, err)
		assert.Equal(t, false, ok)
	}

	n, err := f.engine.SignerCount(f.db)
	assert.Nil(t, err)
	assert.Equal(t, 3, n)

	req, err := f.engine.RequiredConfirmations(f.db)
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), req)

	signers, err := f.engine.Signers(f.db)
	assert.Nil(t, err)
	assert.Equal(t, []quorum.Address{creator, alice, bob}, signers)

	_, err = f.engine.Transaction(f.db, 0)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = f.engine.Confirmers(f.db, 0)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestAddSigner(t *testing.T) {
	cases := map[string]struct {
		caller      quorum.Address
		signer      quorum.Address
		wantErr     *errors.Error
		wantSigners []quorum.Address
	}{
		"signer adds a new member": {
			caller:      alice,
			signer:      charlie,
			wantSigners: []quorum.Address{creator, alice, bob, charlie},
		},
		"caller is not a signer": {
			caller:      mallory,
			signer:      charlie,
			wantErr:     ErrNotSigner,
			wantSigners: []quorum.Address{creator, alice, bob},
		},
		"zero identity": {
			caller:      alice,
			signer:      nil,
			wantErr:     ErrInvalidAddress,
			wantSigners: []quorum.Address{creator, alice, bob},
		},
		"member already in the set": {
			caller:      creator,
			signer:      bob,
			wantErr:     ErrDuplicate,
			wantSigners: []quorum.Address{creator, alice, bob},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			err := f.engine.AddSigner(context.Background(), f.db, tc.caller, tc.signer)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				assert.Equal(t, 0, len(f.events.Events()))
			} else {
				assert.Nil(t, err)
				assert.Equal(t, []quorum.Event{SignerAdded{Signer: tc.signer}}, f.events.Events())
			}
			reg := f.registry(t)
			assert.Equal(t, tc.wantSigners, reg.Signers)
			// The quorum never changes when adding signers.
			assert.Equal(t, uint32(2), reg.RequiredConfirmations)
		})
	}
}

func TestAddSignerErrorKinds(t *testing.T) {
	f := newFixture(t)

	err := f.engine.AddSigner(context.Background(), f.db, creator, alice)
	assert.IsErr(t, errors.ErrInvariant, err)

	err = f.engine.AddSigner(context.Background(), f.db, creator, make(quorum.Address, 20))
	assert.IsErr(t, errors.ErrInvariant, err)

	err = f.engine.AddSigner(context.Background(), f.db, mallory, charlie)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestRemoveSigner(t *testing.T) {
	cases := map[string]struct {
		// extra signers added before removal
		extra       []quorum.Address
		required    uint32
		caller      quorum.Address
		signer      quorum.Address
		wantErr     *errors.Error
		wantSigners []quorum.Address
		wantReq     uint32
	}{
		"cannot go below three signers": {
			required:    2,
			caller:      creator,
			signer:      alice,
			wantErr:     ErrSignerFloor,
			wantSigners: []quorum.Address{creator, alice, bob},
			wantReq:     2,
		},
		"last signer is moved into the gap": {
			extra:       []quorum.Address{charlie, dave},
			required:    2,
			caller:      bob,
			signer:      alice,
			wantSigners: []quorum.Address{creator, dave, bob, charlie},
			wantReq:     2,
		},
		"removing the last signer": {
			extra:       []quorum.Address{charlie},
			required:    2,
			caller:      alice,
			signer:      charlie,
			wantSigners: []quorum.Address{creator, alice, bob},
			wantReq:     2,
		},
		"signer can remove itself": {
			extra:       []quorum.Address{charlie},
			required:    2,
			caller:      alice,
			signer:      alice,
			wantSigners: []quorum.Address{creator, charlie, bob},
			wantReq:     2,
		},
		"quorum still reachable is kept": {
			extra:       []quorum.Address{charlie},
			required:    3,
			caller:      alice,
			signer:      bob,
			wantSigners: []quorum.Address{creator, alice, charlie},
			wantReq:     3,
		},
		"quorum above the signer count is lowered": {
			extra:       []quorum.Address{charlie},
			required:    4,
			caller:      alice,
			signer:      bob,
			wantSigners: []quorum.Address{creator, alice, charlie},
			wantReq:     3,
		},
		"caller is not a signer": {
			extra:       []quorum.Address{charlie},
			required:    2,
			caller:      mallory,
			signer:      charlie,
			wantErr:     ErrNotSigner,
			wantSigners: []quorum.Address{creator, alice, bob, charlie},
			wantReq:     2,
		},
		"target is not a signer": {
			extra:       []quorum.Address{charlie},
			required:    2,
			caller:      alice,
			signer:      mallory,
			wantErr:     ErrNotSigner,
			wantSigners: []quorum.Address{creator, alice, bob, charlie},
			wantReq:     2,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			for _, s := range tc.extra {
				assert.Nil(t, f.engine.AddSigner(ctx, f.db, creator, s))
			}
			assert.Nil(t, f.engine.ChangeRequirement(ctx, f.db, creator, tc.required))
			f.events.Reset()

			err := f.engine.RemoveSigner(ctx, f.db, tc.caller, tc.signer)
			assert.IsErr(t, tc.wantErr, err)

			reg := f.registry(t)
			assert.Equal(t, tc.wantSigners, reg.Signers)
			assert.Equal(t, tc.wantReq, reg.RequiredConfirmations)
			assert.Nil(t, reg.Validate())

			if tc.wantErr == nil {
				assert.Equal(t, []quorum.Event{SignerRemoved{Signer: tc.signer}}, f.events.Events())
			} else {
				assert.Equal(t, 0, len(f.events.Events()))
			}
		})
	}
}

func TestRemoveSignerFloorIsInvariantViolation(t *testing.T) {
	f := newFixture(t)
	for _, s := range []quorum.Address{creator, alice, bob} {
		err := f.engine.RemoveSigner(context.Background(), f.db, creator, s)
		assert.IsErr(t, errors.ErrInvariant, err)
	}
	assert.Equal(t, []quorum.Address{creator, alice, bob}, f.registry(t).Signers)
}

func TestRemoveSignersSequentially(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Nil(t, f.engine.AddSigner(ctx, f.db, creator, charlie))
	assert.Nil(t, f.engine.AddSigner(ctx, f.db, creator, dave))
	assert.Nil(t, f.engine.ChangeRequirement(ctx, f.db, creator, 5))
	assert.Nil(t, f.engine.RemoveSigner(ctx, f.db, creator, dave))
	assert.Equal(t, uint32(4), f.registry(t).RequiredConfirmations)
	assert.Nil(t, f.engine.RemoveSigner(ctx, f.db, creator, charlie))
	assert.Equal(t, uint32(3), f.registry(t).RequiredConfirmations)
	assert.IsErr(t, ErrSignerFloor, f.engine.RemoveSigner(ctx, f.db, creator, bob))
	assert.Equal(t, uint32(3), f.registry(t).RequiredConfirmations)
}

func TestChangeRequirement(t *testing.T) {
	cases := map[string]struct {
		caller   quorum.Address
		required uint32
		wantErr  *errors.Error
		wantReq  uint32
	}{
		"lower to one":          {caller: alice, required: 1, wantReq: 1},
		"raise to signer count": {caller: alice, required: 3, wantReq: 3},
		"zero":                  {caller: alice, required: 0, wantErr: ErrInvalidRequirement, wantReq: 2},
		"above signer count":    {caller: alice, required: 4, wantErr: ErrInvalidRequirement, wantReq: 2},
		"not a signer":          {caller: mallory, required: 1, wantErr: ErrNotSigner, wantReq: 2},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			err := f.engine.ChangeRequirement(context.Background(), f.db, tc.caller, tc.required)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, tc.wantReq, f.registry(t).RequiredConfirmations)
			if tc.wantErr == nil {
				assert.Equal(t, []string{KindRequirementChanged}, f.events.Kinds())
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.engine.Submit(ctx, f.db, creator, target, 1, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), id)

	id, err = f.engine.Submit(ctx, f.db, alice, target, 7, []byte("call"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), id)

	_, err = f.engine.Submit(ctx, f.db, mallory, target, 1, nil)
	assert.IsErr(t, ErrNotSigner, err)

	n, err := f.engine.TransactionCount(f.db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), n)

	assert.Equal(t, &Transaction{To: target, Value: 1}, f.tx(t, 0))
	assert.Equal(t, &Transaction{To: target, Value: 7, Data: []byte("call")}, f.tx(t, 1))

	assert.Equal(t, []quorum.Event{
		TransactionSubmitted{TxID: 0, Proposer: creator, To: target, Value: 1},
		TransactionSubmitted{TxID: 1, Proposer: alice, To: target, Value: 7},
	}, f.events.Events())
}

func TestConfirmAndRevoke(t *testing.T) {
	type action struct {
		revoke  bool
		caller  quorum.Address
		id      uint64
		wantErr *errors.Error
	}
	cases := map[string]struct {
		actions           []action
		wantConfirmations uint32
		wantConfirmers    []quorum.Address
	}{
		"confirm once": {
			actions:           []action{{caller: alice}},
			wantConfirmations: 1,
			wantConfirmers:    []quorum.Address{alice},
		},
		"confirm twice by the same signer": {
			actions: []action{
				{caller: alice},
				{caller: alice, wantErr: ErrAlreadyConfirmed},
			},
			wantConfirmations: 1,
			wantConfirmers:    []quorum.Address{alice},
		},
		"confirm again after revoking": {
			actions: []action{
				{caller: alice},
				{caller: alice, revoke: true},
				{caller: alice},
			},
			wantConfirmations: 1,
			wantConfirmers:    []quorum.Address{alice},
		},
		"revoke without confirming": {
			actions: []action{
				{caller: bob},
				{caller: alice, revoke: true, wantErr: ErrNotConfirmed},
			},
			wantConfirmations: 1,
			wantConfirmers:    []quorum.Address{bob},
		},
		"revoke twice": {
			actions: []action{
				{caller: alice},
				{caller: alice, revoke: true},
				{caller: alice, revoke: true, wantErr: ErrNotConfirmed},
			},
			wantConfirmations: 0,
		},
		"confirm by everyone": {
			actions: []action{
				{caller: alice},
				{caller: bob},
				{caller: creator},
			},
			wantConfirmations: 3,
			wantConfirmers:    sortedAddresses(alice, bob, creator),
		},
		"confirm by a stranger": {
			actions:           []action{{caller: mallory, wantErr: ErrNotSigner}},
			wantConfirmations: 0,
		},
		"revoke by a stranger": {
			actions:           []action{{caller: mallory, revoke: true, wantErr: ErrNotSigner}},
			wantConfirmations: 0,
		},
		"confirm unknown transaction": {
			actions:           []action{{caller: alice, id: 42, wantErr: errors.ErrNotFound}},
			wantConfirmations: 0,
		},
		"revoke unknown transaction": {
			actions:           []action{{caller: alice, id: 42, revoke: true, wantErr: errors.ErrNotFound}},
			wantConfirmations: 0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			id, err := f.engine.Submit(ctx, f.db, creator, target, 1, nil)
			assert.Nil(t, err)

			for _, a := range tc.actions {
				if a.revoke {
					err = f.engine.Revoke(ctx, f.db, a.caller, a.id)
				} else {
					err = f.engine.Confirm(ctx, f.db, a.caller, a.id)
				}
				if a.wantErr == nil {
					assert.Nil(t, err)
				} else {
					assert.IsErr(t, a.wantErr, err)
				}
			}

			tx := f.tx(t, id)
			assert.Equal(t, tc.wantConfirmations, tx.Confirmations)
			assert.Equal(t, false, tx.Executed)

			confirmers, err := f.engine.Confirmers(f.db, id)
			assert.Nil(t, err)
			if len(tc.wantConfirmers) == 0 {
				assert.Equal(t, 0, len(confirmers))
			} else {
				assert.Equal(t, tc.wantConfirmers, confirmers)
			}
			for _, c := range confirmers {
				ok, err := f.engine.IsConfirmed(f.db, id, c)
				assert.Nil(t, err)
				assert.Equal(t, true, ok)
			}
		})
	}
}

func TestRevokeWithInconsistentCountKeepsConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.engine.Submit(ctx, f.db, creator, target, 1, nil)
	assert.Nil(t, err)
	assert.Nil(t, f.engine.Confirm(ctx, f.db, alice, id))

	tx := f.tx(t, id)
	tx.Confirmations = 0
	assert.Nil(t, NewTxBucket().Save(f.db, id, tx))

	err = f.engine.Revoke(ctx, f.db, alice, id)
	assert.IsErr(t, errors.ErrHuman, err)

	ok, err := f.engine.IsConfirmed(f.db, id, alice)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
}

func TestHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.engine.Submit(ctx, f.db, creator, target, 1, nil)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, uint32(0), f.tx(t, id).Confirmations)

	assert.Nil(t, f.engine.Confirm(ctx, f.db, alice, id))
	tx := f.tx(t, id)
	assert.Equal(t, uint32(1), tx.Confirmations)
	assert.Equal(t, false, tx.Executed)

	assert.Nil(t, f.engine.Confirm(ctx, f.db, bob, id))
	assert.Nil(t, f.engine.Execute(ctx, f.db, creator, id))

	tx = f.tx(t, id)
	assert.Equal(t, true, tx.Executed)
	assert.Equal(t, uint32(2), tx.Confirmations)
	assert.Equal(t, []quorumtest.Transfer{{To: target, Value: 1}}, f.bank.Transfers)

	assert.Equal(t, []string{
		KindTransactionSubmitted,
		KindTransactionConfirmed,
		KindTransactionConfirmed,
		KindTransactionExecuted,
	}, f.events.Kinds())

	// Executed transactions are frozen.
	assert.IsErr(t, ErrExecuted, f.engine.Confirm(ctx, f.db, creator, id))
	assert.IsErr(t, ErrExecuted, f.engine.Revoke(ctx, f.db, alice, id))
}

func TestExecute(t *testing.T) {
	cases := map[string]struct {
		confirmers []quorum.Address
		caller     quorum.Address
		id         uint64
		wantErr    *errors.Error
	}{
		"quorum reached": {
			confirmers: []quorum.Address{alice, bob},
			caller:     creator,
		},
		"executor does not need to confirm": {
			confirmers: []quorum.Address{creator, bob},
			caller:     alice,
		},
		"not enough confirmations": {
			confirmers: []quorum.Address{alice},
			caller:     alice,
			wantErr:    ErrNotEnoughConfirmations,
		},
		"caller is not a signer": {
			confirmers: []quorum.Address{alice, bob},
			caller:     mallory,
			wantErr:    ErrNotSigner,
		},
		"unknown transaction": {
			confirmers: []quorum.Address{alice, bob},
			caller:     alice,
			id:         3,
			wantErr:    errors.ErrNotFound,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			id, err := f.engine.Submit(ctx, f.db, creator, target, 5, []byte("x"))
			assert.Nil(t, err)
			for _, c := range tc.confirmers {
				assert.Nil(t, f.engine.Confirm(ctx, f.db, c, id))
			}

			err = f.engine.Execute(ctx, f.db, tc.caller, tc.id)
			assert.IsErr(t, tc.wantErr, err)

			tx := f.tx(t, id)
			assert.Equal(t, uint32(len(tc.confirmers)), tx.Confirmations)
			if tc.wantErr == nil {
				assert.Equal(t, true, tx.Executed)
				assert.Equal(t, 1, f.bank.Calls())
			} else {
				assert.Equal(t, false, tx.Executed)
				assert.Equal(t, 0, f.bank.Calls())
			}
		})
	}
}

func TestExecuteTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.confirmed(t, alice, bob)

	assert.Nil(t, f.engine.Execute(ctx, f.db, creator, id))
	err := f.engine.Execute(ctx, f.db, alice, id)
	assert.IsErr(t, ErrExecuted, err)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, 1, f.bank.Calls())
}

func TestExecuteRollsBackOnTransferFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.confirmed(t, alice, bob)
	f.events.Reset()

	f.bank.Err = errors.Wrap(errors.ErrInsufficientAmount, "vault is empty")
	f.bank.Before = func(ctx context.Context, db quorum.KVStore) error {
		// The transaction is already marked as executed when the
		// transfer is made.
		tx, err := NewTxBucket().Get(db, id)
		if err != nil {
			return err
		}
		if !tx.Executed {
			t.Fatal("transaction must be marked as executed before the transfer")
		}
		return db.Set([]byte("side effect"), []byte("written by transfer"))
	}

	err := f.engine.Execute(ctx, f.db, creator, id)
	assert.IsErr(t, ErrTransferFailed, err)
	assert.IsErr(t, errors.ErrTransfer, err)

	tx := f.tx(t, id)
	assert.Equal(t, false, tx.Executed)
	assert.Equal(t, uint32(2), tx.Confirmations)
	ok, err := f.db.Has([]byte("side effect"))
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
	assert.Equal(t, 0, len(f.events.Events()))

	// Once the cause is resolved the transaction can be executed.
	f.bank.Err = nil
	assert.Nil(t, f.engine.Execute(ctx, f.db, creator, id))
	assert.Equal(t, true, f.tx(t, id).Executed)
	assert.Equal(t, 2, f.bank.Calls())
}

func TestExecuteReentrancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.confirmed(t, alice, bob)

	var reentrant []error
	f.bank.Before = func(ctx context.Context, db quorum.KVStore) error {
		if f.bank.Calls() > 1 {
			t.Fatal("transfer called more than once")
		}
		reentrant = append(reentrant,
			f.engine.Execute(ctx, db.(quorum.CacheableKVStore), alice, id),
			f.engine.Confirm(ctx, db, creator, id),
			f.engine.Revoke(ctx, db, alice, id),
		)
		return nil
	}

	assert.Nil(t, f.engine.Execute(ctx, f.db, creator, id))
	assert.Equal(t, 3, len(reentrant))
	for _, err := range reentrant {
		assert.IsErr(t, ErrExecuted, err)
	}
	assert.Equal(t, 1, f.bank.Calls())
	tx := f.tx(t, id)
	assert.Equal(t, true, tx.Executed)
	assert.Equal(t, uint32(2), tx.Confirmations)
}

func TestQuorumIsReadAtExecution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Nil(t, f.engine.AddSigner(ctx, f.db, creator, charlie))
	assert.Nil(t, f.engine.ChangeRequirement(ctx, f.db, creator, 4))
	id := f.confirmed(t, alice, bob, charlie)
	assert.IsErr(t, ErrNotEnoughConfirmations, f.engine.Execute(ctx, f.db, alice, id))

	// Removing a signer lowers the quorum to 3 and makes the
	// transaction executable right away.
	assert.Nil(t, f.engine.RemoveSigner(ctx, f.db, alice, creator))
	assert.Nil(t, f.engine.Execute(ctx, f.db, alice, id))
	assert.Equal(t, true, f.tx(t, id).Executed)
}

func TestRemovedSignerConfirmationStillCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Nil(t, f.engine.AddSigner(ctx, f.db, creator, charlie))
	id := f.confirmed(t, charlie)
	assert.Nil(t, f.engine.RemoveSigner(ctx, f.db, creator, charlie))

	// The removed signer can no longer act.
	assert.IsErr(t, ErrNotSigner, f.engine.Revoke(ctx, f.db, charlie, id))

	assert.Nil(t, f.engine.Confirm(ctx, f.db, alice, id))
	tx := f.tx(t, id)
	assert.Equal(t, uint32(2), tx.Confirmations)
	assert.Nil(t, f.engine.Execute(ctx, f.db, bob, id))
}

func TestExecuteWithCash(t *testing.T) {
	vault := quorum.NewAddress([]byte("multisig/vault"))
	bank := cash.NewController(vault)
	db := store.MemStore()
	engine := NewEngine(bank, nil)
	ctx := context.Background()

	assert.Nil(t, Initialize(ctx, db, creator, alice, bob))
	assert.Nil(t, bank.Issue(db, vault, 10))

	id, err := engine.Submit(ctx, db, creator, target, 7, nil)
	assert.Nil(t, err)
	big, err := engine.Submit(ctx, db, creator, target, 7, nil)
	assert.Nil(t, err)
	for _, tx := range []uint64{id, big} {
		assert.Nil(t, engine.Confirm(ctx, db, alice, tx))
		assert.Nil(t, engine.Confirm(ctx, db, bob, tx))
	}

	assert.Nil(t, engine.Execute(ctx, db, creator, id))
	balance, err := bank.Balance(db, target)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(7), balance)

	// Only 3 left in the vault.
	err = engine.Execute(ctx, db, creator, big)
	assert.IsErr(t, ErrTransferFailed, err)
	tx, err := engine.Transaction(db, big)
	assert.Nil(t, err)
	assert.Equal(t, false, tx.Executed)

	assert.Nil(t, bank.Issue(db, vault, 4))
	assert.Nil(t, engine.Execute(ctx, db, creator, big))
	balance, err = bank.Balance(db, vault)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(0), balance)
}

func TestTransferFunc(t *testing.T) {
	var got []coin.Amount
	fn := TransferFunc(func(ctx context.Context, db quorum.KVStore, to quorum.Address, value coin.Amount, data []byte) error {
		got = append(got, value)
		return nil
	})
	f := newFixture(t)
	f.engine = NewEngine(fn, nil)
	id := f.confirmed(t, alice, bob)
	assert.Nil(t, f.engine.Execute(context.Background(), f.db, creator, id))
	assert.Equal(t, []coin.Amount{1}, got)
}

// confirmed submits a transaction of value 1 and confirms it by every given
// signer.
func (f *fixture) confirmed(t testing.TB, by ...quorum.Address) uint64 {
	t.Helper()
	ctx := context.Background()
	id, err := f.engine.Submit(ctx, f.db, creator, target, 1, nil)
	assert.Nil(t, err)
	for _, s := range by {
		assert.Nil(t, f.engine.Confirm(ctx, f.db, s, id))
	}
	return id
}

func sortedAddresses(addrs ...quorum.Address) []quorum.Address {
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i], addrs[j]) < 0
	})
	return addrs
}
