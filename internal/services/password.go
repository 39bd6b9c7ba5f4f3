package services

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/portfolio/backend/internal/models"
)

// BcryptCost is the work factor for stored admin passwords.
var BcryptCost = 12

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// checkPassword compares against a throwaway hash when admin is nil so an
// unknown email costs the same as a wrong password.
func checkPassword(admin *models.Admin, password string) error {
	var hash []byte
	if admin != nil {
		hash = []byte(admin.PasswordHash)
	} else {
		dummyHashOnce.Do(func() {
			dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), BcryptCost)
		})
		hash = dummyHash
	}

	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if admin == nil || err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
