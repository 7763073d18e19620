package multisig

import (
	"github.com/iov-one/quorum/errors"
)

// multisig takes codes 1030-1049
var (
	ErrInvalidAddress         = errors.ErrInvariant.Extend(1030, "invalid address")
	ErrDuplicate              = errors.ErrInvariant.Extend(1031, "already a signer")
	ErrSignerFloor            = errors.ErrInvariant.Extend(1032, "cannot have less than 3 signers")
	ErrInvalidRequirement     = errors.ErrInvariant.Extend(1033, "invalid number of required confirmations")
	ErrNotSigner              = errors.ErrUnauthorized.Extend(1034, "not a signer")
	ErrExecuted               = errors.ErrState.Extend(1035, "transaction already executed")
	ErrAlreadyConfirmed       = errors.ErrState.Extend(1036, "transaction already confirmed")
	ErrNotConfirmed           = errors.ErrState.Extend(1037, "transaction not confirmed")
	ErrNotEnoughConfirmations = errors.ErrState.Extend(1038, "not enough confirmations")
	ErrTransferFailed         = errors.ErrTransfer.Extend(1039, "transaction failed")
	ErrInitialized            = errors.ErrState.Extend(1040, "already initialized")
	ErrNotInitialized         = errors.ErrNotFound.Extend(1041, "not initialized")
)
