package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds activity and task identifiers.
const maxIDLength = 256

// ValidateID validates an activity or task identifier.
//
// The rules are conservative:
//   - No empty ids
//   - No control characters
//   - No "/" (it separates the endpoints of a transition id)
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id %q contains invalid control characters", id)
		}
	}

	if strings.Contains(id, "/") {
		return New(ErrCodeInvalidInput, "id %q cannot contain '/'", id)
	}

	return nil
}

// ValidateURL checks that rawURL uses one of the allowed schemes, e.g.
// ValidateURL(uri, "mongodb", "mongodb+srv"). With no schemes given, http
// and https are allowed.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}
	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URL must use one of the schemes %s", strings.Join(schemes, ", "))
}
