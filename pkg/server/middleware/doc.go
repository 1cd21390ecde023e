// Package middleware provides HTTP middleware for the cleanup API server:
// panic recovery, structured request logging, and request ID propagation.
//
// The middleware chain is applied outermost first: Recovery, then Logging,
// then RequestID, so a panic anywhere in the chain is caught and every log
// line carries the request ID.
package middleware
