package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/coin"
)

// Kinds of events published by this extension.
const (
	KindSignerAdded          = "signer_added"
	KindSignerRemoved        = "signer_removed"
	KindRequirementChanged   = "requirement_changed"
	KindTransactionSubmitted = "tx_submitted"
	KindTransactionConfirmed = "tx_confirmed"
	KindTransactionRevoked   = "tx_revoked"
	KindTransactionExecuted  = "tx_executed"
)

// SignerAdded is published when a new identity joins the registry.
type SignerAdded struct {
	Signer quorum.Address
}

func (SignerAdded) Kind() string { return KindSignerAdded }

// SignerRemoved is published when an identity leaves the registry.
type SignerRemoved struct {
	Signer quorum.Address
}

func (SignerRemoved) Kind() string { return KindSignerRemoved }

// RequirementChanged is published when the quorum was set by a signer.
type RequirementChanged struct {
	Required uint32
}

func (RequirementChanged) Kind() string { return KindRequirementChanged }

type TransactionSubmitted struct {
	TxID     uint64
	Proposer quorum.Address
	To       quorum.Address
	Value    coin.Amount
}

func (TransactionSubmitted) Kind() string { return KindTransactionSubmitted }

type TransactionConfirmed struct {
	TxID      uint64
	Confirmer quorum.Address
}

func (TransactionConfirmed) Kind() string { return KindTransactionConfirmed }

type TransactionRevoked struct {
	TxID    uint64
	Revoker quorum.Address
}

func (TransactionRevoked) Kind() string { return KindTransactionRevoked }

type TransactionExecuted struct {
	TxID uint64
}

func (TransactionExecuted) Kind() string { return KindTransactionExecuted }
