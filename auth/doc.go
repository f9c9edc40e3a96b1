// Package auth authenticates snippet uploads.
//
// Two credential types are supported: static API keys sent in X-API-Key and
// HMAC-signed JWTs sent as "Authorization: Bearer <token>". A
// CompositeAuthenticator tries them in order and Middleware guards an
// http.Handler with the result, storing the Identity in the request context.
//
// When no authenticator is configured, Middleware lets every request through
// as the anonymous identity.
package auth
