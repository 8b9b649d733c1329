package hash

// Hasher derives and verifies password hashes. Plaintext is never stored.
type Hasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches the stored hash. A malformed
	// stored hash yields false, never an error.
	Verify(plain, hashed string) (bool, error)
}
