// Package jwt issues and verifies the signed tokens used by admin login.
//
// It carries a typed Claims struct on top of the registered claim set, an
// HS512 signer/verifier, and context helpers for passing verified claims
// through request handling.
package jwt
