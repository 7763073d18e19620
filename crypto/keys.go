package crypto

import (
	"encoding/hex"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is the namespace used when deriving an address from a key.
const ExtensionName = "sigs"

// Key is an ed25519 private key that an operator can use to obtain an
// identity. The vault itself never verifies signatures, the host does.
type Key struct {
	priv ed25519.PrivateKey
}

// GenKey returns a random new private key.
func GenKey() (*Key, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 key")
	}
	return &Key{priv: priv}, nil
}

// KeyFromSeed will deterministically generate a private key from a given
// seed. Use if you have a strong source of external randomness, or for
// deterministic keys in test cases.
func KeyFromSeed(seed []byte) (*Key, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	return &Key{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// PublicKey returns the public part of the key.
func (k *Key) PublicKey() []byte {
	return k.priv.Public().(ed25519.PublicKey)
}

// Address returns the identity bound to this key.
func (k *Key) Address() quorum.Address {
	data := append([]byte(ExtensionName+"/ed25519/"), k.PublicKey()...)
	return quorum.NewAddress(data)
}

// Seed returns the seed in hex so that the key can be stored and restored
// with KeyFromSeed.
func (k *Key) Seed() string {
	return hex.EncodeToString(k.priv.Seed())
}
