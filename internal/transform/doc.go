// Package transform converts a raw provider option chain into an
// immutable analytics snapshot.
//
// The transform is a pure function: it selects the strike window around
// the at-the-money strike, scales open interest to lakhs, derives spread
// percentages and cross-leg fields, and performs no I/O.
package transform
