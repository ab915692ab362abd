package helpers

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the accounts were originally created with.
const bcryptCost = 10

// HashPassword derives the stored credential from a plaintext password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain hashes to the stored bcrypt digest.
func CheckPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
