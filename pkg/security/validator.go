package security

import (
	"errors"
	"strings"
	"unicode"
)

// MaxSearchQueryLength defines the maximum allowed length for search queries.
// GitHub logins are capped at 39 characters; anything much longer is noise.
const MaxSearchQueryLength = 64

// ValidateSearchQuery trims and validates a login search query.
// A blank query is valid and normalizes to the empty string.
func ValidateSearchQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	if len(query) > MaxSearchQueryLength {
		return "", errors.New("search query too long")
	}

	for _, char := range query {
		if !isValidSearchChar(char) {
			return "", errors.New("search query contains invalid characters")
		}
	}

	return query, nil
}

// isValidSearchChar checks if a character is safe for login search queries
func isValidSearchChar(char rune) bool {
	// Logins are letters, digits and hyphens; allow a few extras for
	// partial matches typed by hand.
	return unicode.IsLetter(char) || unicode.IsNumber(char) ||
		char == ' ' || char == '-' || char == '_' || char == '.'
}
