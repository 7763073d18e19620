package multisig

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

const optKey = "multisig"

// Genesis is the "multisig" section of the genesis file.
type Genesis struct {
	Creator quorum.Address   `json:"creator"`
	Signers []quorum.Address `json:"signers"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ quorum.Initializer = Initializer{}

// FromGenesis initializes the vault with the creator and the two signers
// declared in the genesis file. A missing section is not an error.
func (Initializer) FromGenesis(opts quorum.Options, kv quorum.KVStore) error {
	var gen *Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if gen == nil {
		return nil
	}
	if len(gen.Signers) != 2 {
		return errors.Wrapf(errors.ErrInput, "want 2 signers besides the creator, got %d", len(gen.Signers))
	}
	return Initialize(context.Background(), kv, gen.Creator, gen.Signers[0], gen.Signers[1])
}
