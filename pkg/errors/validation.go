package errors

import (
	"strings"
	"unicode"
)

// ValidateDatabaseName validates a MongoDB database name.
//
// The rules follow the server's restrictions:
//   - No empty names
//   - Maximum length of 63 bytes
//   - None of the characters /\. "$*<>:|? and no null bytes
func ValidateDatabaseName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "database name cannot be empty")
	}
	if len(name) > 63 {
		return New(ErrCodeInvalidConfig, "database name too long (max 63 characters)")
	}
	if i := strings.IndexAny(name, "/\\. \"$*<>:|?\x00"); i >= 0 {
		return New(ErrCodeInvalidConfig, "database name contains invalid character %q", name[i])
	}
	return nil
}

// ValidateLocation validates a connection location.
// A location is either a MongoDB connection string or a path to a
// sequence file on disk.
func ValidateLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return New(ErrCodeInvalidLocation, "location cannot be empty")
	}
	for _, r := range location {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLocation, "location contains invalid control characters")
		}
	}
	if IsMongoURI(location) {
		rest := location[strings.Index(location, "://")+3:]
		if rest == "" || strings.HasPrefix(rest, "/") {
			return New(ErrCodeInvalidLocation, "connection string is missing a host: %q", location)
		}
	}
	return nil
}

// IsMongoURI reports whether location is a MongoDB connection string.
func IsMongoURI(location string) bool {
	return strings.HasPrefix(location, "mongodb://") || strings.HasPrefix(location, "mongodb+srv://")
}
