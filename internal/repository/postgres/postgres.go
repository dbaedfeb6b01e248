package postgres

import "strings"

// Unique constraints on seller_profiles.
const (
	constraintSellerUsername = "seller_profiles_username_key"
	constraintSellerEmail    = "seller_profiles_email_key"
)

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// violatesConstraint reports whether err is a unique violation of the named constraint.
func violatesConstraint(err error, constraint string) bool {
	return isUniqueViolation(err) && strings.Contains(err.Error(), constraint)
}
