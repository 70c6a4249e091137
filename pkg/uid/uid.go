package uid

import "github.com/google/uuid"

// New generates a new unique identifier.
func New() string {
	return uuid.New().String()
}

// NewShort generates a short identifier suitable for tagging log lines,
// such as per-attempt request tags.
func NewShort() string {
	return uuid.New().String()[:8]
}

// IsValid checks if a string is a valid UUID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
