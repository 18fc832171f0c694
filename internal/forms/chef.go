package forms

import (
	"fmt"
	"strings"

	"restaurant-dashboard/internal/domain"
)

// MinChefCompletion is the completion percentage below which a chef form
// cannot be submitted.
const MinChefCompletion = 40

type Chef struct {
	Name     string `json:"Name" validate:"required"`
	Email    string `json:"Email" validate:"required,email"`
	Password string `json:"Password" validate:"required,min=6"`
	Contact  string `json:"Contact"`
	Role     string `json:"Role"`
}

var chefMessages = map[string]string{
	"Name.required":     "Name is required",
	"Email.required":    "Email is required",
	"Email.email":       "Enter a valid email address",
	"Password.required": "Password is required",
	"Password.min":      "Password must be at least 6 characters",
}

func (c Chef) Completion() int {
	done := 0
	for _, v := range []string{c.Name, c.Email, c.Password, c.Contact, c.Role} {
		if filled(v) {
			done++
		}
	}
	return percent(done, 5)
}

// Validate gates submission on completion first, then on field rules.
func (c Chef) Validate() error {
	if pct := c.Completion(); pct < MinChefCompletion {
		return fmt.Errorf("%w: %d%% filled, need %d%%", ErrIncomplete, pct, MinChefCompletion)
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	return check(c, chefMessages)
}

func (c Chef) ToDomain() domain.Chef {
	role := strings.TrimSpace(c.Role)
	if role == "" {
		role = "Chef"
	}
	return domain.Chef{
		Name:     strings.TrimSpace(c.Name),
		Email:    strings.TrimSpace(c.Email),
		Password: c.Password,
		Contact:  strings.TrimSpace(c.Contact),
		Role:     role,
	}
}
