package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/coin"
	"github.com/iov-one/quorum/errors"
)

func usage(fl *flag.FlagSet, description string) func() {
	return func() {
		fmt.Fprint(fl.Output(), description)
		fl.PrintDefaults()
	}
}

func cmdDeposit(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("deposit", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Add value to the vault account.
`)
	var amountFl coin.Amount
	fl.Var(&amountFl, "amount", "Amount to deposit.")
	if err := fl.Parse(args); err != nil {
		return err
	}
	return env.withVault(func(v *app.Vault) error {
		return v.Deposit(context.Background(), amountFl)
	})
}

func cmdRejectIncoming(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("reject-incoming", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Mark an account as refusing incoming transfers. Executing a transaction that
pays such account fails.
`)
	var (
		accountFl = flIdentity(fl, "account", "Key name or address of the account.")
		rejectFl  = fl.Bool("reject", true, "Refuse incoming transfers.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	account, err := accountFl.resolve(env, "account")
	if err != nil {
		return err
	}
	return env.withVault(func(v *app.Vault) error {
		return v.SetRejectIncoming(context.Background(), account, *rejectFl)
	})
}

func cmdAddSigner(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("add-signer", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Add a new signer to the registry. The number of required confirmations does
not change.
`)
	var (
		fromFl   = flIdentity(fl, "from", "Key name or address of the signer making the change.")
		signerFl = flIdentity(fl, "signer", "Key name or address of the new signer.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	from, err := fromFl.resolve(env, "from")
	if err != nil {
		return err
	}
	signer, err := signerFl.resolve(env, "signer")
	if err != nil {
		return err
	}
	return env.withVault(func(v *app.Vault) error {
		return v.AddSigner(context.Background(), from, signer)
	})
}

func cmdRemoveSigner(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("remove-signer", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Remove a signer from the registry. The registry must keep at least three
signers. If the quorum can no longer be reached it is lowered to the number
of remaining signers.
`)
	var (
		fromFl   = flIdentity(fl, "from", "Key name or address of the signer making the change.")
		signerFl = flIdentity(fl, "signer", "Key name or address of the signer to remove.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	from, err := fromFl.resolve(env, "from")
	if err != nil {
		return err
	}
	signer, err := signerFl.resolve(env, "signer")
	if err != nil {
		return err
	}
	return env.withVault(func(v *app.Vault) error {
		return v.RemoveSigner(context.Background(), from, signer)
	})
}

func cmdChangeRequirement(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("change-requirement", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Set the number of confirmations a transaction needs before it can be
executed.
`)
	var (
		fromFl     = flIdentity(fl, "from", "Key name or address of the signer making the change.")
		requiredFl = fl.Uint64("required", 0, "Number of required confirmations.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	if *requiredFl > math.MaxUint32 {
		return errors.Wrapf(errors.ErrInput, "required confirmations %d out of range", *requiredFl)
	}
	from, err := fromFl.resolve(env, "from")
	if err != nil {
		return err
	}
	return env.withVault(func(v *app.Vault) error {
		return v.ChangeRequirement(context.Background(), from, uint32(*requiredFl))
	})
}

func cmdSubmit(env *environment, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("submit", flag.ContinueOnError)
	fl.Usage = usage(fl, `
Submit a new transaction that pays the destination out of the vault account.
The transaction id is printed.
`)
	var (
		fromFl  = flIdentity(fl, "from", "Key name or address of the proposing signer.")
		toFl    = flIdentity(fl, "to", "Key name or address of the destination.")
		dataFl  = flHex(fl, "data", "Hex encoded payload passed along with the transfer.")
		valueFl coin.Amount
	)
	fl.Var(&valueFl, "value", "Amount to transfer.")
	if err := fl.Parse(args); err != nil {
		return err
	}
	from, err := fromFl.resolve(env, "from")
	if err != nil {
		return err
	}
	to, err := toFl.resolve(env, "to")
	if err != nil {
		return err
	}
	return env.withVault(func(v *app.Vault) error {
		id, err := v.Submit(context.Background(), from, to, valueFl, *dataFl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, id)
		return err
	})
}

// txOperation parses the flags shared by all operations on a single
// transaction and runs the operation.
func txOperation(env *environment, args []string, name, description string,
	op func(v *app.Vault, from quorum.Address, id uint64) error) error {

	fl := flag.NewFlagSet(name, flag.ContinueOnError)
	fl.Usage = usage(fl, description)
	var (
		fromFl = flIdentity(fl, "from", "Key name or address of the signer.")
		txFl   = fl.Int64("tx", -1, "Transaction id.")
	)
	if err := fl.Parse(args); err != nil {
		return err
	}
	from, err := fromFl.resolve(env, "from")
	if err != nil {
		return err
	}
	if *txFl < 0 {
		return errors.Wrap(errors.ErrInput, "-tx is required")
	}
	return env.withVault(func(v *app.Vault) error {
		return op(v, from, uint64(*txFl))
	})
}

func cmdConfirm(env *environment, output io.Writer, args []string) error {
	return txOperation(env, args, "confirm", `
Confirm a pending transaction.
`, func(v *app.Vault, from quorum.Address, id uint64) error {
		return v.Confirm(context.Background(), from, id)
	})
}

func cmdRevoke(env *environment, output io.Writer, args []string) error {
	return txOperation(env, args, "revoke", `
Revoke a confirmation of a pending transaction.
`, func(v *app.Vault, from quorum.Address, id uint64) error {
		return v.Revoke(context.Background(), from, id)
	})
}

func cmdExecute(env *environment, output io.Writer, args []string) error {
	return txOperation(env, args, "execute", `
Execute a transaction that collected enough confirmations. If the transfer
fails, the transaction stays pending and can be executed again later.
`, func(v *app.Vault, from quorum.Address, id uint64) error {
		return v.Execute(context.Background(), from, id)
	})
}
