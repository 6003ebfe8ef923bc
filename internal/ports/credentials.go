package ports

// CredentialStore verifies operator logins
type CredentialStore interface {
	// Verify returns nil when password matches the stored hash for user
	Verify(user, password string) error

	// SetPassword creates the user or replaces its password
	SetPassword(user, password string) error

	Users() ([]string, error)
}
