// Package http implements the REST transport of the sync server.
//
// Routes live under /api. Everything except /api/version and /api/health
// requires either the shared key in X-API-Key or a bearer token obtained
// from /api/auth/token. Tracing, access logging, compression, request
// timeouts, upload limits and the optional HashSHA256 integrity check are
// applied here before requests reach the service layer.
package http
