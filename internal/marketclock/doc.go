// Package marketclock decides whether the market is currently open.
//
// The check is a fixed daily time window in a fixed timezone (NSE:
// 09:15:00-15:30:00 IST). There is deliberately no weekend or holiday
// awareness; a bypass flag disables the check entirely for non-production
// use.
package marketclock
