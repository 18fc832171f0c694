package forms

import "strings"

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate requires both fields.
func (l Login) Validate() error {
	if strings.TrimSpace(l.Email) == "" || l.Password == "" {
		return FieldErrors{"credentials": "Please enter both email and password"}
	}
	return nil
}
