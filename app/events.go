package app

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

// LogSink writes a log line for every event.
type LogSink struct {
	logger log.Logger
}

var _ quorum.EventSink = LogSink{}

// NewLogSink returns a sink writing to given logger.
func NewLogSink(logger log.Logger) LogSink {
	return LogSink{logger: logger.With("module", "events")}
}

// Emit implements quorum.EventSink.
func (s LogSink) Emit(e quorum.Event) {
	keyvals := []interface{}{"kind", e.Kind()}
	switch e := e.(type) {
	case multisig.SignerAdded:
		keyvals = append(keyvals, "signer", e.Signer)
	case multisig.SignerRemoved:
		keyvals = append(keyvals, "signer", e.Signer)
	case multisig.RequirementChanged:
		keyvals = append(keyvals, "required", e.Required)
	case multisig.TransactionSubmitted:
		keyvals = append(keyvals, "tx", e.TxID, "proposer", e.Proposer, "to", e.To, "value", e.Value)
	case multisig.TransactionConfirmed:
		keyvals = append(keyvals, "tx", e.TxID, "confirmer", e.Confirmer)
	case multisig.TransactionRevoked:
		keyvals = append(keyvals, "tx", e.TxID, "revoker", e.Revoker)
	case multisig.TransactionExecuted:
		keyvals = append(keyvals, "tx", e.TxID)
	}
	s.logger.Info("event", keyvals...)
}
