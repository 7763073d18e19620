package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum/crypto"
)

func cmdKeys(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("keys", flag.ContinueOnError)
	fl.Usage = func() {
		fmt.Fprint(fl.Output(), `
List stored keys or generate a new one.

When a name is given, a new ed25519 key is generated and stored under that
name. This command fails if a key with that name already exists. Without a
name, all stored keys are listed together with their addresses.
`)
		fl.PrintDefaults()
	}
	var (
		nameFl = fl.String("name", "", "Name of the key to generate.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}

	if *nameFl != "" {
		key, err := crypto.GenKey()
		if err != nil {
			return err
		}
		if err := env.saveKey(*nameFl, key); err != nil {
			return err
		}
		return printKey(output, *nameFl, key)
	}

	names, err := env.keyNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		key, err := env.loadKey(name)
		if err != nil {
			return err
		}
		if err := printKey(output, name, key); err != nil {
			return err
		}
	}
	return nil
}

func printKey(output io.Writer, name string, key *crypto.Key) error {
	bech, err := key.Address().Bech32()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s\t%s\t%s\n", name, key.Address(), bech)
	return err
}
