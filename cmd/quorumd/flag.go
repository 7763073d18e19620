package main

import (
	"encoding/hex"
	"flag"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// identityFlag holds a key name or an address that is resolved after the
// flags were parsed.
type identityFlag struct {
	name string
}

func (f *identityFlag) String() string { return f.name }

func (f *identityFlag) Set(raw string) error {
	f.name = raw
	return nil
}

// resolve returns the address the flag refers to.
func (f *identityFlag) resolve(env *environment, flagName string) (quorum.Address, error) {
	if f.name == "" {
		return nil, errors.Wrapf(errors.ErrInput, "-%s is required", flagName)
	}
	addr, err := env.identity(f.name)
	if err != nil {
		return nil, errors.Wrapf(err, "-%s", flagName)
	}
	return addr, nil
}

// flIdentity declares a flag accepting a key name or an address. This
// function follows Go's flag package convention.
func flIdentity(fl *flag.FlagSet, name, usage string) *identityFlag {
	var f identityFlag
	fl.Var(&f, name, usage)
	return &f
}

type flagbyte []byte

func (b flagbyte) String() string {
	return hex.EncodeToString(b)
}

func (b *flagbyte) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*b = val
	return nil
}

// flHex declares a flag holding hex encoded bytes. This function follows
// Go's flag package convention.
func flHex(fl *flag.FlagSet, name, usage string) *flagbyte {
	var b flagbyte
	fl.Var(&b, name, usage)
	return &b
}
