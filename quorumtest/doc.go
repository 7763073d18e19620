/*
Package quorumtest provides helpers for testing code that uses the vault:
deterministic identities, an event recorder and configurable transfer
capabilities.
*/
package quorumtest
