package utils

import "golang.org/x/crypto/bcrypt"

// MinBcryptCost is the floor for the configured hashing cost. Anything
// lower is too cheap for password storage.
const MinBcryptCost = 10

// HashPassword returns a bcrypt hash using the given cost. Costs below
// MinBcryptCost are raised to it.
func HashPassword(plain string, cost int) (string, error) {
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash and a plain password in
// constant time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
