// Package engine derives license status and metrics from raw records and
// decides which seats to revoke when a license's quantity is reduced.
//
// Everything here is a pure function of its arguments. The current time is
// always passed in; nothing reads the wall clock, performs I/O, or returns an error.
// Callers are responsible for serializing edits of the same license.
package engine
