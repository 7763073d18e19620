package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome     = "home"
	flagLogLevel = "log-level"
	varHome      *string
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".quorum")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "info", "log level: debug, info, error or none")

	flag.CommandLine.Usage = helpMessage
}

// commands is a register of all available commands. The name is used to
// match with the first argument given after the global flags.
//
// A command function is given the environment, the output and the command
// line arguments following the command name, that should be parsed using the
// flag package. Logs are written to stderr, results to the output.
var commands = map[string]func(env *environment, output io.Writer, args []string) error{
	"add-signer":         cmdAddSigner,
	"balance":            cmdBalance,
	"change-requirement": cmdChangeRequirement,
	"confirm":            cmdConfirm,
	"deposit":            cmdDeposit,
	"execute":            cmdExecute,
	"init":               cmdInit,
	"keys":               cmdKeys,
	"reject-incoming":    cmdRejectIncoming,
	"remove-signer":      cmdRemoveSigner,
	"revoke":             cmdRevoke,
	"status":             cmdStatus,
	"submit":             cmdSubmit,
	"tx":                 cmdTransaction,
	"version":            cmdVersion,
}

func helpMessage() {
	fmt.Fprintln(os.Stderr, "quorumd")
	fmt.Fprintln(os.Stderr, "        Quorum authorized vault")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintf(os.Stderr, "Usage: %s [-home DIR] [-log-level LEVEL] <command> [<flags>]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
	fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Missing command")
		helpMessage()
		os.Exit(2)
	}

	logger, err := newLogger(os.Stderr, *varLogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	run, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", flag.Arg(0))
		helpMessage()
		os.Exit(2)
	}

	env := &environment{home: *varHome, logger: logger.With("module", "quorumd")}
	if err := run(env, os.Stdout, flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

// newLogger returns a logger writing to w that drops all entries below the
// given level.
func newLogger(w io.Writer, level string) (log.Logger, error) {
	allowed, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), allowed), nil
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}
