package app

import (
	"encoding/json"
	"io/ioutil"
	"regexp"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// IsValidChainID is the RegExp to ensure valid chain IDs
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// Genesis file format.
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState quorum.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshal genesis file: %s", err)
	}
	return &gen, nil
}

const chainIDKey = "_i.chain_id"

// loadChainID returns the chain id stored if any.
func loadChainID(kv quorum.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv quorum.KVStore, chainID string) error {
	if !IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	k := []byte(chainIDKey)
	switch ok, err := kv.Has(k); {
	case err != nil:
		return errors.Wrap(err, "chain id lookup")
	case ok:
		return errors.Wrap(errors.ErrState, "chain id already set")
	}
	return kv.Set(k, []byte(chainID))
}
