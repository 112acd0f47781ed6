package domain

// User represents a registered account of the system.
type User struct {
	Username     string
	PasswordHash string
}
