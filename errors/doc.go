/*
Package errors implements the error taxonomy used across quorum.

Every failure returned by the vault wraps one of the root errors declared in
this package. A root error carries a numeric code, so a host can tell apart an
authorization failure from a state conflict without string matching.

Declare an extension specific root only when none of the roots below
describes the failure. Use Register(code, description) for that. For reusing
errors use Wrap and Wrapf, or ErrXyz.New and ErrXyz.Newf.

A stacktrace is attached at the point where the error is wrapped for the first
time. Print an error with %+v to see it.
*/
package errors
