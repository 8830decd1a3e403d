// Package dhan provides a client for the Dhan v2 market-data REST API.
//
// The client performs single blocking calls and never retries; retry
// policy belongs to the refresher. Failures are classified as either a
// TransportError (network failure, timeout, non-2xx status) or an
// UpstreamError (the provider answered but reported a non-success status
// in its payload, e.g. a bad scrip or expiry).
package dhan
