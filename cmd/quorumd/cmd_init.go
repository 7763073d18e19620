package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/cash"
	"github.com/iov-one/quorum/x/multisig"
)

func cmdInit(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("init", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
Write the genesis file and initialize the vault state from it.

The vault is controlled by the creator and two more signers, two of them must
confirm a transaction. Each of them can be given as a key name or an
address. A key is generated for every name that does not exist yet.
`)
		fl.PrintDefaults()
	}
	var (
		chainFl   = fl.String("chain-id", "quorum-local", "Chain ID stored in the genesis file.")
		creatorFl = fl.String("creator", "creator", "Key name or address of the creator.")
		firstFl   = fl.String("signer1", "signer1", "Key name or address of the first signer.")
		secondFl  = fl.String("signer2", "signer2", "Key name or address of the second signer.")
		depositFl coin.Amount
	)
	fl.Var(&depositFl, "deposit", "Initial balance of the vault account.")
	if err := fl.Parse(args); err != nil {
		return err
	}

	var signers [3]quorum.Address
	for i, who := range []string{*creatorFl, *firstFl, *secondFl} {
		addr, err := env.identityOrNewKey(who)
		if err != nil {
			return errors.Wrapf(err, "signer %q", who)
		}
		signers[i] = addr
	}

	gen, err := genesis(*chainFl, signers, depositFl)
	if err != nil {
		return err
	}
	if err := writeGenesis(env.genesisPath(), gen); err != nil {
		return err
	}
	env.logger.Info("genesis written", "path", env.genesisPath())

	loaded, err := app.LoadGenesis(env.genesisPath())
	if err != nil {
		return err
	}
	return env.withVault(func(v *app.Vault) error {
		if err := v.InitChain(context.Background(), loaded); err != nil {
			return err
		}
		fmt.Fprintf(output, "vault account %s\n", app.VaultAccount)
		for _, s := range signers {
			fmt.Fprintf(output, "signer %s\n", s)
		}
		return nil
	})
}

// identityOrNewKey resolves the identity, generating a key for names that
// are not known yet.
func (e *environment) identityOrNewKey(nameOrAddress string) (quorum.Address, error) {
	if addr, err := quorum.ParseAddress(nameOrAddress); err == nil && addr != nil {
		return addr, nil
	}
	switch key, err := e.loadKey(nameOrAddress); {
	case err == nil:
		return key.Address(), nil
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	key, err := crypto.GenKey()
	if err != nil {
		return nil, err
	}
	if err := e.saveKey(nameOrAddress, key); err != nil {
		return nil, err
	}
	e.logger.Info("key generated", "name", nameOrAddress, "address", key.Address())
	return key.Address(), nil
}

func genesis(chainID string, signers [3]quorum.Address, deposit coin.Amount) (*app.Genesis, error) {
	ms, err := json.Marshal(multisig.Genesis{
		Creator: signers[0],
		Signers: []quorum.Address{signers[1], signers[2]},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	accounts, err := json.Marshal([]cash.GenesisAccount{
		{Address: app.VaultAccount, Balance: deposit},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &app.Genesis{
		ChainID: chainID,
		AppState: quorum.Options{
			"multisig": ms,
			"cash":     accounts,
		},
	}, nil
}

// writeGenesis stores the genesis file. An existing file is never
// overwritten.
func writeGenesis(path string, gen *app.Genesis) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrDuplicate, "genesis file %q already exists", path)
	}
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrapf(errors.ErrInput, "create config directory: %s", err)
	}
	if err := ioutil.WriteFile(path, raw, 0600); err != nil {
		return errors.Wrapf(errors.ErrInput, "write genesis: %s", err)
	}
	return nil
}
