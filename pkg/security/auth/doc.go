// Package auth provides bearer token authentication for the cleanup API.
//
// Two validation schemes are supported, selected by configuration: static
// API keys and HS256-signed JWTs. Both produce an Identity that is attached
// to the request context by the middleware and available to handlers via
// GetIdentity.
package auth
