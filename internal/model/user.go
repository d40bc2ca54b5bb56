package model

import (
	"strings"
	"unicode/utf8"
)

// UserProfile is the profile returned by the identity endpoint. It is never persisted.
type UserProfile struct {
	ID       *string `json:"id,omitempty"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Surname  string  `json:"surname"`
}

// Initials returns the upper-cased first letters of name and surname.
func (u UserProfile) Initials() string {
	return strings.ToUpper(firstRune(u.Name) + firstRune(u.Surname))
}

// FullName returns name and surname separated by a space.
func (u UserProfile) FullName() string {
	return u.Name + " " + u.Surname
}

func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}
