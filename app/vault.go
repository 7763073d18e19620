package app

import (
	"context"
	"sync"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

// VaultAccount is the cash account holding the value controlled by the
// signers.
var VaultAccount = quorum.NewAddress([]byte("multisig/vault"))

// Vault binds the multisig engine and the cash balances to a committing
// store. It is safe for concurrent use, operations are executed one at a
// time.
type Vault struct {
	mu sync.Mutex

	store  *CommitStore
	engine *multisig.Engine
	bank   cash.BaseController
	init   quorum.Initializer

	// pending collects events of the running operation.
	pending quorum.EventBuffer
	sink    quorum.EventSink
	logger  log.Logger
}

// NewVault loads the latest state of the store. Events of committed
// operations are delivered to sink, which may be nil.
func NewVault(store quorum.CommitKVStore, sink quorum.EventSink) (*Vault, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = quorum.NopSink{}
	}
	v := &Vault{
		store:  cs,
		bank:   cash.NewController(VaultAccount),
		init:   quorum.ChainInitializers(cash.Initializer{}, multisig.Initializer{}),
		sink:   sink,
		logger: log.NewNopLogger(),
	}
	v.engine = multisig.NewEngine(v.bank, &v.pending)
	return v, nil
}

// WithLogger sets the logger on the Vault and returns it,
// to make it easy to chain in initialization
func (v *Vault) WithLogger(logger log.Logger) *Vault {
	v.logger = logger
	return v
}

// apply runs a single operation. The operation is committed only if fn
// returns no error, and only then the events it produced are delivered.
func (v *Vault) apply(ctx context.Context, op string, fn func(ctx context.Context, db quorum.CacheableKVStore) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	ctx = quorum.WithLogInfo(quorum.WithLogger(ctx, v.logger), "op", op)
	commit, err := v.store.Apply(func(db quorum.CacheableKVStore) error {
		return recovered(db, func(db quorum.CacheableKVStore) error {
			return fn(ctx, db)
		})
	})
	if err != nil {
		v.pending.Reset()
		quorum.GetLogger(ctx).Debug("operation rejected", "code", errors.Code(err), "err", err)
		if errors.ErrPanic.Is(err) {
			quorum.GetLogger(ctx).Error("operation panicked", "err", err)
		}
		return errors.Redact(err)
	}
	quorum.GetLogger(ctx).Debug("operation committed", "version", commit.Version)
	v.pending.FlushTo(v.sink)
	return nil
}

// view runs fn against the committed state.
func (v *Vault) view(fn func(db quorum.ReadOnlyKVStore) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.store.View(fn)
}

// InitChain stores the chain id and loads the application state of the
// genesis. It can be done only once.
func (v *Vault) InitChain(ctx context.Context, gen *Genesis) error {
	return v.apply(ctx, "init_chain", func(ctx context.Context, db quorum.CacheableKVStore) error {
		if err := saveChainID(db, gen.ChainID); err != nil {
			return err
		}
		if err := v.init.FromGenesis(gen.AppState, db); err != nil {
			return errors.Wrap(err, "genesis")
		}
		quorum.GetLogger(ctx).Info("chain initialized", "chain_id", gen.ChainID)
		return nil
	})
}

// ChainID returns the chain id set by InitChain.
func (v *Vault) ChainID() (string, error) {
	var id string
	err := v.view(func(db quorum.ReadOnlyKVStore) error {
		var err error
		id, err = loadChainID(db)
		return err
	})
	return id, err
}

// Initialize creates the signer registry.
func (v *Vault) Initialize(ctx context.Context, creator, a, b quorum.Address) error {
	return v.apply(ctx, "initialize", func(ctx context.Context, db quorum.CacheableKVStore) error {
		return multisig.Initialize(ctx, db, creator, a, b)
	})
}

// Deposit adds value to the vault account.
func (v *Vault) Deposit(ctx context.Context, amount coin.Amount) error {
	return v.apply(ctx, "deposit", func(ctx context.Context, db quorum.CacheableKVStore) error {
		return v.bank.Issue(db, v.bank.Source(), amount)
	})
}

// SetRejectIncoming marks an account as refusing incoming transfers.
func (v *Vault) SetRejectIncoming(ctx context.Context, account quorum.Address, reject bool) error {
	return v.apply(ctx, "reject_incoming", func(ctx context.Context, db quorum.CacheableKVStore) error {
		return v.bank.SetRejectIncoming(db, account, reject)
	})
}

// AddSigner adds a new member to the registry on behalf of caller.
func (v *Vault) AddSigner(ctx context.Context, caller, signer quorum.Address) error {
	return v.apply(ctx, "add_signer", func(ctx context.Context, db quorum.CacheableKVStore) error {
		return v.engine.AddSigner(ctx, db, caller, signer)
	})
}

// RemoveSigner removes a member from the registry on behalf of caller.
func (v *Vault) RemoveSigner(ctx context.Context, caller, signer quorum.Address) error {
	return v.apply(ctx, "remove_signer", func(ctx context.Context, db quorum.CacheableKVStore) error {
		return v.engine.RemoveSigner(ctx, db, caller, signer)
	})
}

// ChangeRequirement sets the number of confirmations needed to execute.
func (v *Vault) ChangeRequirement(ctx context.Context, caller quorum.Address, required uint32) error {
	return v.apply(ctx, "change_requirement", func(ctx context.Context, db quorum.CacheableKVStore) error {
		return v.engine.ChangeRequirement(ctx, db, caller, required)
	})
}

// Submit adds a transaction to the ledger and returns its id.
func (v *Vault) Submit(ctx context.Context, caller, to quorum.Address, value coin.Amount, data []byte) (uint64, error) {
	var id uint64
	err := v.apply(ctx, "submit", func(ctx context.Context, db quorum.CacheableKVStore) error {
		var err error
		id, err = v.engine.Submit(ctx, db, caller, to, value, data)
		return err
	})
	return id, err
}

// Confirm records the confirmation of caller for the transaction.
func (v *Vault) Confirm(ctx context.Context, caller quorum.Address, txID uint64) error {
	return v.apply(ctx, "confirm", func(ctx context.Context, db quorum.CacheableKVStore) error {
		return v.engine.Confirm(ctx, db, caller, txID)
	})
}

// Revoke withdraws an earlier confirmation of caller.
func (v *Vault) Revoke(ctx context.Context, caller quorum.Address, txID uint64) error {
	return v.apply(ctx, "revoke", func(ctx context.Context, db quorum.CacheableKVStore) error {
		return v.engine.Revoke(ctx, db, caller, txID)
	})
}

// Execute releases the transaction value once it has enough confirmations.
func (v *Vault) Execute(ctx context.Context, caller quorum.Address, txID uint64) error {
	return v.apply(ctx, "execute", func(ctx context.Context, db quorum.CacheableKVStore) error {
		return v.engine.Execute(ctx, db, caller, txID)
	})
}

// IsSigner returns true if the identity is a member of the registry.
func (v *Vault) IsSigner(who quorum.Address) (bool, error) {
	var ok bool
	err := v.view(func(db quorum.ReadOnlyKVStore) error {
		var err error
		ok, err = v.engine.IsSigner(db, who)
		return err
	})
	return ok, err
}

// Transaction returns the ledger entry with given id.
func (v *Vault) Transaction(txID uint64) (*multisig.Transaction, error) {
	var tx *multisig.Transaction
	err := v.view(func(db quorum.ReadOnlyKVStore) error {
		var err error
		tx, err = v.engine.Transaction(db, txID)
		return err
	})
	return tx, err
}

// Confirmers returns the identities with a standing confirmation of the
// transaction.
func (v *Vault) Confirmers(txID uint64) ([]quorum.Address, error) {
	var res []quorum.Address
	err := v.view(func(db quorum.ReadOnlyKVStore) error {
		var err error
		res, err = v.engine.Confirmers(db, txID)
		return err
	})
	return res, err
}

// Balance returns the amount held by the account.
func (v *Vault) Balance(account quorum.Address) (coin.Amount, error) {
	var amount coin.Amount
	err := v.view(func(db quorum.ReadOnlyKVStore) error {
		var err error
		amount, err = v.bank.Balance(db, account)
		return err
	})
	return amount, err
}

// Status is a summary of the vault state.
type Status struct {
	ChainID               string           `json:"chain_id"`
	Version               int64            `json:"version"`
	Signers               []quorum.Address `json:"signers"`
	RequiredConfirmations uint32           `json:"required_confirmations"`
	Transactions          uint64           `json:"transactions"`
	Balance               coin.Amount      `json:"balance"`
}

// Status returns the summary of the committed state.
func (v *Vault) Status() (*Status, error) {
	var st Status
	err := v.view(func(db quorum.ReadOnlyKVStore) error {
		commit, err := v.store.CommitInfo()
		if err != nil {
			return err
		}
		st.Version = commit.Version
		if st.ChainID, err = loadChainID(db); err != nil {
			return err
		}
		switch st.Signers, err = v.engine.Signers(db); {
		case err == nil:
			if st.RequiredConfirmations, err = v.engine.RequiredConfirmations(db); err != nil {
				return err
			}
		case !multisig.ErrNotInitialized.Is(err):
			return err
		}
		if st.Transactions, err = v.engine.TransactionCount(db); err != nil {
			return err
		}
		st.Balance, err = v.bank.Balance(db, v.bank.Source())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}
