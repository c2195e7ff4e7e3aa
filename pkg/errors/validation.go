package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// runIDRegex matches the identifiers handed out for stored runs (UUID-like:
// hex digits and dashes).
var runIDRegex = regexp.MustCompile(`^[0-9a-fA-F][0-9a-fA-F-]{0,63}$`)

// ValidateRunID validates a stored run identifier before it is used as a file
// name or database key.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - Maximum length of 64 characters
//   - Hex digits and dashes only, which rules out path traversal
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "run id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidID, "run id too long (max 64 characters)")
	}
	if !runIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid run id: %q", id)
	}
	return nil
}

// ValidatePath validates a local file path given on the command line or in
// the config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateRedisURL validates a redis connection URL.
// It ensures the URL uses the redis or rediss scheme.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis:// or rediss:// scheme")
	}
	return nil
}

// ValidateMongoURI validates a MongoDB connection string.
// It ensures the URI uses the mongodb or mongodb+srv scheme.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidConfig, "mongo URI cannot be empty")
	}
	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidConfig, "mongo URI must use mongodb:// or mongodb+srv:// scheme")
	}
	return nil
}

// ValidateRNGSeed rejects a zero RNG seed given by a caller. Zero is the
// unset value of generation options and would silently select the default
// seed.
func ValidateRNGSeed(seed uint64) error {
	if seed == 0 {
		return New(ErrCodeInvalidInput, "seed must be a positive integer")
	}
	return nil
}
