package validator

// Validator checks a value against its declared rules. A nil error means
// every field passed; validation failures carry a per-field message map.
type Validator interface {
	Validate(data any) error
}
