package utils

import "golang.org/x/crypto/bcrypt"

// HashPin returns the bcrypt hash of a PIN using the given cost. The
// PIN space is tiny (four decimal digits), so the deliberately slow
// hash is mandatory here.
func HashPin(pin string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPin safely compares a bcrypt hash and a plain PIN.
func VerifyPin(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
