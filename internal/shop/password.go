package shop

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// storedPassword returns what goes into users.password. Without hashing the
// submitted text is kept verbatim.
func storedPassword(plain string, hash bool) (string, error) {
	if !hash {
		return plain, nil
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
