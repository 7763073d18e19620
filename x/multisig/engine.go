package multisig

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
)

// Transferer moves value out of the vault. It is provided by the host and
// is called by Execute with the store savepoint, so that everything it
// writes is rolled back together with the ledger when it fails.
type Transferer interface {
	Transfer(ctx context.Context, db quorum.KVStore, to quorum.Address, value coin.Amount, data []byte) error
}

// TransferFunc allows to use a function as a Transferer.
type TransferFunc func(ctx context.Context, db quorum.KVStore, to quorum.Address, value coin.Amount, data []byte) error

// Transfer calls the wrapped function.
func (fn TransferFunc) Transfer(ctx context.Context, db quorum.KVStore, to quorum.Address, value coin.Amount, data []byte) error {
	return fn(ctx, db, to, value, data)
}

// Engine implements all operations of the vault. It keeps no state of its
// own, everything is read from and written to the given store.
//
// Operations are not safe for concurrent use on the same store. The host
// must run them one at a time.
type Engine struct {
	registry RegistryBucket
	txs      TxBucket
	confirms ConfirmationBucket
	bank     Transferer
	events   quorum.EventSink
}

// NewEngine returns an engine that releases value using given transferer
// and publishes events to given sink. A nil sink drops all events.
func NewEngine(bank Transferer, events quorum.EventSink) *Engine {
	if events == nil {
		events = quorum.NopSink{}
	}
	return &Engine{
		registry: NewRegistryBucket(),
		txs:      NewTxBucket(),
		confirms: NewConfirmationBucket(),
		bank:     bank,
		events:   events,
	}
}

// Initialize stores a new registry made of the creator and two other
// signers, with two confirmations required. It fails if the vault was
// already initialized.
func Initialize(ctx context.Context, db quorum.KVStore, creator, a, b quorum.Address) error {
	members := []struct {
		name string
		addr quorum.Address
	}{
		{"creator", creator},
		{"first signer", a},
		{"second signer", b},
	}
	for _, m := range members {
		if m.addr.IsZero() {
			return errors.Wrap(ErrInvalidAddress, m.name)
		}
		if err := m.addr.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidAddress, "%s: %s", m.name, err)
		}
	}
	if a.Equals(b) || creator.Equals(a) || creator.Equals(b) {
		return errors.Wrap(ErrDuplicate, "signers must be distinct")
	}

	bucket := NewRegistryBucket()
	switch ok, err := bucket.Exists(db); {
	case err != nil:
		return errors.Wrap(err, "registry lookup")
	case ok:
		return ErrInitialized
	}

	reg := &Registry{
		Signers:               []quorum.Address{creator.Clone(), a.Clone(), b.Clone()},
		RequiredConfirmations: InitialRequiredConfirmations,
	}
	if err := bucket.Save(db, reg); err != nil {
		return errors.Wrap(err, "save registry")
	}
	quorum.GetLogger(ctx).Info("vault initialized",
		"creator", creator, "signers", len(reg.Signers), "required", reg.RequiredConfirmations)
	return nil
}

// loadAsSigner returns the registry if the caller is one of the signers.
func (e *Engine) loadAsSigner(db quorum.ReadOnlyKVStore, caller quorum.Address) (*Registry, error) {
	reg, err := e.registry.Get(db)
	if err != nil {
		return nil, err
	}
	if reg.index(caller) < 0 {
		return nil, errors.Wrapf(ErrNotSigner, "caller %s", caller)
	}
	return reg, nil
}

// AddSigner adds a new identity to the registry. The number of required
// confirmations does not change.
func (e *Engine) AddSigner(ctx context.Context, db quorum.KVStore, caller, signer quorum.Address) error {
	reg, err := e.loadAsSigner(db, caller)
	if err != nil {
		return err
	}
	if signer.IsZero() {
		return errors.Wrap(ErrInvalidAddress, "new signer")
	}
	if err := signer.Validate(); err != nil {
		return errors.Wrapf(ErrInvalidAddress, "new signer: %s", err)
	}
	if reg.index(signer) >= 0 {
		return errors.Wrapf(ErrDuplicate, "signer %s", signer)
	}

	reg.Signers = append(reg.Signers, signer.Clone())
	if err := e.registry.Save(db, reg); err != nil {
		return errors.Wrap(err, "save registry")
	}
	e.events.Emit(SignerAdded{Signer: signer.Clone()})
	return nil
}

// RemoveSigner removes an identity from the registry. The last signer takes
// the place of the removed one. When the quorum can no longer be reached, it
// is lowered to the number of remaining signers.
func (e *Engine) RemoveSigner(ctx context.Context, db quorum.KVStore, caller, signer quorum.Address) error {
	reg, err := e.loadAsSigner(db, caller)
	if err != nil {
		return err
	}
	idx := reg.index(signer)
	if idx < 0 {
		return errors.Wrapf(ErrNotSigner, "signer %s", signer)
	}
	if len(reg.Signers) <= MinSigners {
		return errors.Wrapf(ErrSignerFloor, "registry holds %d signers", len(reg.Signers))
	}

	last := len(reg.Signers) - 1
	reg.Signers[idx] = reg.Signers[last]
	reg.Signers = reg.Signers[:last]
	if n := uint32(len(reg.Signers)); reg.RequiredConfirmations > n {
		quorum.GetLogger(ctx).Debug("quorum lowered",
			"from", reg.RequiredConfirmations, "to", n)
		reg.RequiredConfirmations = n
	}

	if err := e.registry.Save(db, reg); err != nil {
		return errors.Wrap(err, "save registry")
	}
	e.events.Emit(SignerRemoved{Signer: signer.Clone()})
	return nil
}

// ChangeRequirement sets the number of confirmations a transaction needs
// before it can be executed. It must be between 1 and the number of
// signers.
func (e *Engine) ChangeRequirement(ctx context.Context, db quorum.KVStore, caller quorum.Address, required uint32) error {
	reg, err := e.loadAsSigner(db, caller)
	if err != nil {
		return err
	}
	if required < 1 || int(required) > len(reg.Signers) {
		return errors.Wrapf(ErrInvalidRequirement,
			"%d required with %d signers", required, len(reg.Signers))
	}
	reg.RequiredConfirmations = required
	if err := e.registry.Save(db, reg); err != nil {
		return errors.Wrap(err, "save registry")
	}
	e.events.Emit(RequirementChanged{Required: required})
	return nil
}

// Submit appends a new pending transaction to the ledger and returns its
// id.
func (e *Engine) Submit(ctx context.Context, db quorum.KVStore, caller, to quorum.Address, value coin.Amount, data []byte) (uint64, error) {
	if _, err := e.loadAsSigner(db, caller); err != nil {
		return 0, err
	}
	tx := &Transaction{
		To:    to.Clone(),
		Value: value,
	}
	if len(data) > 0 {
		tx.Data = append([]byte(nil), data...)
	}
	id, err := e.txs.Create(db, tx)
	if err != nil {
		return 0, errors.Wrap(err, "create transaction")
	}
	e.events.Emit(TransactionSubmitted{
		TxID:     id,
		Proposer: caller.Clone(),
		To:       tx.To,
		Value:    value,
	})
	return id, nil
}

// loadPending returns the transaction if it exists and was not executed.
func (e *Engine) loadPending(db quorum.ReadOnlyKVStore, id uint64) (*Transaction, error) {
	tx, err := e.txs.Get(db, id)
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, errors.Wrapf(ErrExecuted, "transaction %d", id)
	}
	return tx, nil
}

// Confirm records the caller's confirmation of a pending transaction.
func (e *Engine) Confirm(ctx context.Context, db quorum.KVStore, caller quorum.Address, id uint64) error {
	if _, err := e.loadAsSigner(db, caller); err != nil {
		return err
	}
	tx, err := e.loadPending(db, id)
	if err != nil {
		return err
	}
	switch ok, err := e.confirms.IsConfirmed(db, id, caller); {
	case err != nil:
		return errors.Wrap(err, "confirmation lookup")
	case ok:
		return errors.Wrapf(ErrAlreadyConfirmed, "transaction %d by %s", id, caller)
	}

	if err := e.confirms.Confirm(db, id, caller); err != nil {
		return errors.Wrap(err, "save confirmation")
	}
	tx.Confirmations++
	if err := e.txs.Save(db, id, tx); err != nil {
		return errors.Wrap(err, "save transaction")
	}
	e.events.Emit(TransactionConfirmed{TxID: id, Confirmer: caller.Clone()})
	return nil
}

// Revoke withdraws the caller's confirmation of a pending transaction.
func (e *Engine) Revoke(ctx context.Context, db quorum.KVStore, caller quorum.Address, id uint64) error {
	if _, err := e.loadAsSigner(db, caller); err != nil {
		return err
	}
	tx, err := e.loadPending(db, id)
	if err != nil {
		return err
	}
	switch ok, err := e.confirms.IsConfirmed(db, id, caller); {
	case err != nil:
		return errors.Wrap(err, "confirmation lookup")
	case !ok:
		return errors.Wrapf(ErrNotConfirmed, "transaction %d by %s", id, caller)
	}

	if tx.Confirmations == 0 {
		return errors.Wrapf(errors.ErrHuman, "transaction %d confirmation count underflow", id)
	}
	if err := e.confirms.Revoke(db, id, caller); err != nil {
		return errors.Wrap(err, "delete confirmation")
	}
	tx.Confirmations--
	if err := e.txs.Save(db, id, tx); err != nil {
		return errors.Wrap(err, "save transaction")
	}
	e.events.Emit(TransactionRevoked{TxID: id, Revoker: caller.Clone()})
	return nil
}

// Execute releases the value of a transaction that collected enough
// confirmations. The quorum is the one set at the time of this call.
//
// The transaction is marked as executed in a savepoint of db before the
// transfer is made, and the transfer writes to the same savepoint. Any call
// made back into the engine during the transfer sees the transaction as
// executed. If the transfer fails, the savepoint is discarded and
// ErrTransferFailed is returned.
func (e *Engine) Execute(ctx context.Context, db quorum.CacheableKVStore, caller quorum.Address, id uint64) error {
	reg, err := e.loadAsSigner(db, caller)
	if err != nil {
		return err
	}
	tx, err := e.loadPending(db, id)
	if err != nil {
		return err
	}
	if tx.Confirmations < reg.RequiredConfirmations {
		return errors.Wrapf(ErrNotEnoughConfirmations,
			"transaction %d has %d of %d", id, tx.Confirmations, reg.RequiredConfirmations)
	}

	ctx = quorum.WithLogInfo(ctx, "tx", id)
	log := quorum.GetLogger(ctx)
	savepoint := db.CacheWrap()
	tx.Executed = true
	if err := e.txs.Save(savepoint, id, tx); err != nil {
		savepoint.Discard()
		return errors.Wrap(err, "save transaction")
	}
	if err := e.bank.Transfer(ctx, savepoint, tx.To, tx.Value, tx.Data); err != nil {
		savepoint.Discard()
		log.Info("transfer failed", "to", tx.To, "value", tx.Value, "err", err)
		return errors.Wrapf(ErrTransferFailed, "transaction %d: %s", id, err)
	}
	if err := savepoint.Write(); err != nil {
		return errors.Wrap(err, "write savepoint")
	}
	log.Debug("transaction executed", "to", tx.To, "value", tx.Value)
	e.events.Emit(TransactionExecuted{TxID: id})
	return nil
}

// IsSigner returns true if the identity is part of the registry.
func (e *Engine) IsSigner(db quorum.ReadOnlyKVStore, who quorum.Address) (bool, error) {
	reg, err := e.registry.Get(db)
	if err != nil {
		return false, err
	}
	return reg.index(who) >= 0, nil
}

// Signers returns the registry members in their storage order.
func (e *Engine) Signers(db quorum.ReadOnlyKVStore) ([]quorum.Address, error) {
	reg, err := e.registry.Get(db)
	if err != nil {
		return nil, err
	}
	return reg.Signers, nil
}

// SignerCount returns the number of registry members.
func (e *Engine) SignerCount(db quorum.ReadOnlyKVStore) (int, error) {
	reg, err := e.registry.Get(db)
	if err != nil {
		return 0, err
	}
	return len(reg.Signers), nil
}

// RequiredConfirmations returns the current quorum.
func (e *Engine) RequiredConfirmations(db quorum.ReadOnlyKVStore) (uint32, error) {
	reg, err := e.registry.Get(db)
	if err != nil {
		return 0, err
	}
	return reg.RequiredConfirmations, nil
}

// Transaction returns the ledger entry with given id.
func (e *Engine) Transaction(db quorum.ReadOnlyKVStore, id uint64) (*Transaction, error) {
	return e.txs.Get(db, id)
}

// TransactionCount returns the number of ledger entries. Ids of all entries
// are lower than this value.
func (e *Engine) TransactionCount(db quorum.ReadOnlyKVStore) (uint64, error) {
	return e.txs.Count(db)
}

// IsConfirmed returns true if the identity confirmed the transaction and
// did not revoke the confirmation.
func (e *Engine) IsConfirmed(db quorum.ReadOnlyKVStore, id uint64, who quorum.Address) (bool, error) {
	return e.confirms.IsConfirmed(db, id, who)
}

// Confirmers returns all identities with a standing confirmation of the
// transaction, including those that are no longer signers.
func (e *Engine) Confirmers(db quorum.ReadOnlyKVStore, id uint64) ([]quorum.Address, error) {
	if _, err := e.txs.Get(db, id); err != nil {
		return nil, err
	}
	return e.confirms.Confirmers(db, id)
}
