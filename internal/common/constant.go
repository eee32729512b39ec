// Package common contains shared constants and sentinel errors used across
// messagely components.
package common

// AuthHeaderName is the HTTP header carrying the bearer token on
// authenticated requests.
const AuthHeaderName = "Authorization"
