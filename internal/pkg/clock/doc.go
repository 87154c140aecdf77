// Package clock abstracts the current time behind a small interface.
//
// Code that needs "now" (ad expiry, token lifetimes, conversation
// timestamps) should take a Clocker instead of calling time.Now directly,
// so tests can pin the clock to a fixed instant.
package clock
