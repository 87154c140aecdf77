// Package hash covers one-way hashing of secrets and identifiers.
//
// Passwords go through the slow Hash/Verify pair (bcrypt); poster
// identities are reduced to stable digests with the keyed HMAC helper so
// raw email addresses never reach storage.
package hash
