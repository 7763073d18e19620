package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
)

func cmdStatus(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("status", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Print the registry, the number of transactions and the vault balance.
`)
	if err := fl.Parse(args); err != nil {
		return err
	}
	return env.withVault(func(v *app.Vault) error {
		st, err := v.Status()
		if err != nil {
			return err
		}
		return printJSON(output, st)
	})
}

// txView is the printed form of a ledger entry.
type txView struct {
	ID            uint64           `json:"id"`
	To            quorum.Address   `json:"to"`
	Value         coin.Amount      `json:"value"`
	Data          string           `json:"data,omitempty"`
	Executed      bool             `json:"executed"`
	Confirmations uint32           `json:"confirmations"`
	ConfirmedBy   []quorum.Address `json:"confirmed_by"`
}

func cmdTransaction(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("tx", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Print a single transaction together with the identities that confirmed it.
`)
	txFl := fl.Int64("tx", -1, "Transaction id.")
	if err := fl.Parse(args); err != nil {
		return err
	}
	if *txFl < 0 {
		return errors.Wrap(errors.ErrInput, "-tx is required")
	}
	id := uint64(*txFl)
	return env.withVault(func(v *app.Vault) error {
		tx, err := v.Transaction(id)
		if err != nil {
			return err
		}
		confirmers, err := v.Confirmers(id)
		if err != nil {
			return err
		}
		return printJSON(output, txView{
			ID:            id,
			To:            tx.To,
			Value:         tx.Value,
			Data:          fmt.Sprintf("%x", tx.Data),
			Executed:      tx.Executed,
			Confirmations: tx.Confirmations,
			ConfirmedBy:   confirmers,
		})
	})
}

func cmdBalance(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("balance", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Print the balance of an account. Without -account, the vault account balance
is printed.
`)
	accountFl := flIdentity(fl, "account", "Key name or address of the account.")
	if err := fl.Parse(args); err != nil {
		return err
	}
	account := app.VaultAccount
	if accountFl.name != "" {
		var err error
		if account, err = accountFl.resolve(env, "account"); err != nil {
			return err
		}
	}
	return env.withVault(func(v *app.Vault) error {
		amount, err := v.Balance(account)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, amount)
		return err
	})
}

func cmdVersion(env *environment, output io.Writer, args []string) error {
	_, err := fmt.Fprintln(output, quorum.Version())
	return err
}

func printJSON(output io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
