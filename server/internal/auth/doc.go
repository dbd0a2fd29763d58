// Package auth provides authentication middleware for dripguard-server.
//
// APIKeyMiddleware(mode, header, key) validates the API key from the named
// HTTP header on every request to the wrapped handler.
//
// When mode != "apikey" or key == "", all requests pass through (useful for
// local development with auth disabled). When the key is incorrect or
// absent, the middleware responds 401 immediately.
package auth
