package db

import "strings"

// IsUniqueViolation reports whether err references a unique constraint
// violation. When constraintName is provided the error text must mention it,
// which distinguishes collisions on order_number from other constraints.
// Matches both Postgres and the sqlite wording used by in-memory test
// databases.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") &&
		!strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if constraintName == "" {
		return true
	}
	return strings.Contains(msg, constraintName)
}
