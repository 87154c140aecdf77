package uid

import "github.com/google/uuid"

// UUID produces RFC 4122 identifier strings, preferring the time-ordered
// version 7 layout.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// v4 keeps working when the v7 clock source misbehaves.
		return uuid.NewString()
	}
	return id.String()
}
