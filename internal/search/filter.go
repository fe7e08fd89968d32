// Package search derives filtered user views from an in-memory snapshot.
package search

import (
	"strings"

	"github-users-service/internal/domain/user"
)

// Filter returns the subsequence of users whose login contains query as a
// case-insensitive substring. The query is trimmed first; a blank query
// returns base unchanged. Pure and idempotent, it never fails.
func Filter(base []user.User, query string) []user.User {
	query = strings.TrimSpace(query)
	if query == "" {
		return base
	}

	needle := strings.ToLower(query)
	filtered := make([]user.User, 0, len(base))
	for _, u := range base {
		if strings.Contains(strings.ToLower(u.Login), needle) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}
