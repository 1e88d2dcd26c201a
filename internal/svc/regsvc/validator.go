package regsvc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/mkrupp/homecase-registration/internal/domain"
)

// registrationRequest carries the values a registration must provide.
// Whitespace-only values count as missing; nothing else is checked.
type registrationRequest struct {
	Username string `validate:"required,notblank"`
	Email    string `validate:"required,notblank"`
	Password string `validate:"required,notblank"`
}

// NewValidator returns a validator with the "notblank" rule registered.
func NewValidator() *validator.Validate {
	v := validator.New()

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Errorf("register notblank: %w", err))
	}

	return v
}

// ValidateUser checks that username, email and password are present.
// Returns domain.ErrMissingField naming the offending fields.
func ValidateUser(v *validator.Validate, u domain.User) error {
	err := v.Struct(registrationRequest{
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
	})
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, strings.ToLower(fe.Field()))
	}

	return fmt.Errorf("%w: %s", domain.ErrMissingField, strings.Join(fields, ", "))
}
