package auth

import (
	"regexp"
	"unicode"

	"github.com/antonio-alexander/go-employee-manager/internal/data"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordLengthMin int = 8
	passwordLengthMax int = 32
)

var emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func HashAndSaltPassword(plainPassword []byte) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword(plainPassword, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPasswordBytes), nil
}

func ComparePasswords(hashedPassword string, plainPassword []byte) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), plainPassword)
}

// IsStrongPassword rejects passwords shorter than 8 or longer than 32
// characters or missing an upper case letter, a digit or a special
// character.
func IsStrongPassword(password string) error {
	var hasUpper, hasDigit, hasSpecial bool

	if len(password) < passwordLengthMin || len(password) > passwordLengthMax {
		return data.ErrWeakPassword
	}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasDigit || !hasSpecial {
		return data.ErrWeakPassword
	}
	return nil
}

func IsValidEmail(email string) bool {
	return email != "" && emailRegexp.MatchString(email)
}
