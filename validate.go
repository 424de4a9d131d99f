package blogauth

import "net/mail"

// validateEmail accepts bare RFC 5322 addresses only — no display names,
// no angle brackets.
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}
