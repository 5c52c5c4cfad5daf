package security

import (
	"errors"
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

var (
	ErrPasswordTooShort   = errors.New("password must contain at least 8 characters")
	ErrPasswordNumeric    = errors.New("password cannot be entirely numeric")
	ErrPasswordCommon     = errors.New("password is too common")
	ErrPasswordLikeIdents = errors.New("password is too similar to the account details")
)

var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwertyui":  {},
	"iloveyou":  {},
	"letmein1":  {},
	"welcome1":  {},
	"campus123": {},
	"student1":  {},
}

// CheckPasswordPolicy rejects short, numeric-only, common passwords and
// passwords that contain one of the supplied identifiers (email local part,
// student id, names).
func CheckPasswordPolicy(password string, identifiers ...string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		return ErrPasswordNumeric
	}
	lowered := strings.ToLower(password)
	if _, ok := commonPasswords[lowered]; ok {
		return ErrPasswordCommon
	}
	for _, ident := range identifiers {
		ident = strings.ToLower(strings.TrimSpace(ident))
		if at := strings.IndexByte(ident, '@'); at > 0 {
			ident = ident[:at]
		}
		if len(ident) >= 4 && strings.Contains(lowered, ident) {
			return ErrPasswordLikeIdents
		}
	}
	return nil
}
