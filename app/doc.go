/*
Package app hosts a vault on top of a committing store.

Vault serializes all operations behind a single lock. Every operation runs
against a cache of the committed state. When it succeeds the cache is
written and a new version of the store is committed, when it fails the
cache is dropped. Events produced by an operation are delivered to the sink
only after the commit.
*/
package app
