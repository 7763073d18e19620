package main

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store/iavl"
	"github.com/tendermint/tendermint/libs/log"
)

// environment describes where the vault keeps its files.
//
//	<home>/config/genesis.json
//	<home>/data/quorum.db
//	<home>/keys/<name>.key
type environment struct {
	home   string
	logger log.Logger
}

func (e *environment) genesisPath() string {
	return filepath.Join(e.home, "config", "genesis.json")
}

func (e *environment) dataDir() string {
	return filepath.Join(e.home, "data")
}

func (e *environment) keyPath(name string) string {
	return filepath.Join(e.home, "keys", name+".key")
}

// withVault opens the store, runs fn and closes the store.
func (e *environment) withVault(fn func(v *app.Vault) error) error {
	if err := os.MkdirAll(e.dataDir(), 0700); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "create data directory: %s", err)
	}
	db, err := iavl.NewCommitStore(e.dataDir(), "quorum")
	if err != nil {
		return err
	}
	defer db.Close()

	v, err := app.NewVault(db, app.NewLogSink(e.logger))
	if err != nil {
		return err
	}
	return fn(v.WithLogger(e.logger))
}

// saveKey stores the key seed under given name. An existing key is never
// overwritten.
func (e *environment) saveKey(name string, key *crypto.Key) error {
	path := e.keyPath(name)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrDuplicate, "key file %q already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrapf(errors.ErrInput, "create keys directory: %s", err)
	}
	if err := ioutil.WriteFile(path, []byte(key.Seed()), 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "write key: %s", err)
	}
	return nil
}

// loadKey reads the key stored under given name.
func (e *environment) loadKey(name string) (*crypto.Key, error) {
	raw, err := ioutil.ReadFile(e.keyPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "key %q", name)
		}
		return nil, errors.Wrapf(errors.ErrInput, "read key: %s", err)
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "key %q is not hex encoded", name)
	}
	return crypto.KeyFromSeed(seed)
}

// keyNames returns the names of all stored keys.
func (e *environment) keyNames() ([]string, error) {
	files, err := ioutil.ReadDir(filepath.Join(e.home, "keys"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(errors.ErrInput, "list keys: %s", err)
	}
	var names []string
	for _, f := range files {
		if name := f.Name(); strings.HasSuffix(name, ".key") {
			names = append(names, strings.TrimSuffix(name, ".key"))
		}
	}
	return names, nil
}

// identity resolves a key name or an address into an address.
func (e *environment) identity(nameOrAddress string) (quorum.Address, error) {
	if nameOrAddress == "" {
		return nil, errors.Wrap(errors.ErrInput, "identity required")
	}
	key, err := e.loadKey(nameOrAddress)
	switch {
	case err == nil:
		return key.Address(), nil
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	return quorum.ParseAddress(nameOrAddress)
}
