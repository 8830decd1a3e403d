// Package model defines shared data types used across the chain cache.
//
// Conventions:
//   - Open interest: scaled to lakhs (1 lakh = 100,000 contracts) in StrikeRow
//   - Prices and greeks: float64, as reported by the provider
//   - Timestamps: time.Time in UTC
//   - Strike spacing: fixed at 100 points
package model
