package user

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the profile rules registered
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("birthday", validateBirthday)
	return v
}

// validateBirthday accepts a past calendar date in BirthdayLayout
func validateBirthday(fl validator.FieldLevel) bool {
	t, err := time.Parse(BirthdayLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return t.Before(time.Now())
}
