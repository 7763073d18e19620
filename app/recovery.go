package app

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// recovered calls fn and turns a panic into an ErrPanic error, so that a
// misbehaving transfer cannot leave the vault locked or half written.
func recovered(db quorum.CacheableKVStore, fn func(quorum.CacheableKVStore) error) (err error) {
	defer errors.Recover(&err)
	return fn(db)
}
