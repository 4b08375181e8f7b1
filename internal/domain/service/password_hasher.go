package service

// PasswordHasher defines the interface for hashing and verifying passwords.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check reports whether a plaintext password matches a stored hash.
	Check(password, hash string) bool
}
