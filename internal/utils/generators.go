package utils

import "github.com/google/uuid"

// GenerateID returns a new random record identifier.
func GenerateID() string {
	return uuid.NewString()
}

// CanonicalID parses id as a UUID and returns its canonical lowercase,
// hyphenated form.
func CanonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
