package cash

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
)

// Controller is the functionality needed by the host to fund the vault and
// by the multisig engine to release value.
type Controller interface {
	Balance(db quorum.ReadOnlyKVStore, addr quorum.Address) (coin.Amount, error)
	Issue(db quorum.KVStore, dest quorum.Address, amount coin.Amount) error
	MoveCoins(db quorum.KVStore, src, dest quorum.Address, amount coin.Amount) error
	Transfer(ctx context.Context, db quorum.KVStore, to quorum.Address, value coin.Amount, data []byte) error
}

// BaseController is a simple implementation of Controller that releases
// value from a single source account.
type BaseController struct {
	bucket Bucket
	source quorum.Address
}

var _ Controller = BaseController{}

// NewController returns a controller that pays out of the source account.
func NewController(source quorum.Address) BaseController {
	return BaseController{
		bucket: NewBucket(),
		source: source,
	}
}

// Source returns the account this controller pays out of.
func (c BaseController) Source() quorum.Address {
	return c.source
}

// Balance returns the amount held by the account.
func (c BaseController) Balance(db quorum.ReadOnlyKVStore, addr quorum.Address) (coin.Amount, error) {
	w, err := c.bucket.Get(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// Issue attempts to add the given amount of coins to the destination
// address. Fails if it overflows the wallet.
func (c BaseController) Issue(db quorum.KVStore, dest quorum.Address, amount coin.Amount) error {
	w, err := c.bucket.Get(db, dest)
	if err != nil {
		return err
	}
	if w.Balance, err = w.Balance.Add(amount); err != nil {
		return errors.Wrap(err, "issue")
	}
	return c.bucket.Save(db, dest, w)
}

// SetRejectIncoming marks the account as refusing or accepting incoming
// transfers.
func (c BaseController) SetRejectIncoming(db quorum.KVStore, addr quorum.Address, reject bool) error {
	w, err := c.bucket.Get(db, addr)
	if err != nil {
		return err
	}
	w.RejectIncoming = reject
	return c.bucket.Save(db, addr, w)
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't have sufficient coins, or dest refuses
// incoming transfers, it fails without writing anything.
func (c BaseController) MoveCoins(db quorum.KVStore, src, dest quorum.Address, amount coin.Amount) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if !sender.Balance.IsGTE(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount,
			"account %s holds %s, need %s", src, sender.Balance, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	recipient, err := c.bucket.Get(db, dest)
	if err != nil {
		return err
	}
	if recipient.RejectIncoming {
		return errors.Wrapf(errors.ErrTransfer, "account %s rejects incoming transfers", dest)
	}

	if sender.Balance, err = sender.Balance.Subtract(amount); err != nil {
		return err
	}
	if recipient.Balance, err = recipient.Balance.Add(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, src, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, dest, recipient)
}

// Transfer releases value from the source account. The payload is not
// interpreted by the cash extension, it is only logged.
func (c BaseController) Transfer(ctx context.Context, db quorum.KVStore, to quorum.Address, value coin.Amount, data []byte) error {
	if err := c.MoveCoins(db, c.source, to, value); err != nil {
		return err
	}
	quorum.GetLogger(ctx).Debug("transfer",
		"from", c.source, "to", to, "value", value, "data_len", len(data))
	return nil
}
