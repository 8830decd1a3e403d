// Package refresh implements the cache refresh pipeline.
//
// The Refresher runs one cycle: gate on the market clock, fetch the raw
// chain, transform it, and append the resulting snapshot to the store,
// retrying failed fetches with exponential backoff up to a bound. The
// Scheduler drives the Refresher once at startup and then on a fixed
// interval for the lifetime of the process; a tick that fires while a
// run is still in flight is skipped, never queued.
package refresh
