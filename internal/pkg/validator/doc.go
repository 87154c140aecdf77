// Package validator checks request and input structs against their
// declared tag rules.
//
// Use cases depend on the Validator interface only; the concrete
// go-playground/validator v10 binding lives here.
package validator
