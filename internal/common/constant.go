package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer "

// DefaultMediaType is recorded for uploads that do not declare a Content-Type.
const DefaultMediaType = "application/octet-stream"
