package booking

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// tempCredentials mints an 8-character one-time password for an
// auto-provisioned account and returns it with its bcrypt hash.  Only the
// hash is persisted; the plain value is surfaced once in the booking
// confirmation.
func tempCredentials() (plain, hash string, err error) {
	buf := make([]byte, 4)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(buf)
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return plain, string(h), nil
}
