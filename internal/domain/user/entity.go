// internal/domain/user/entity.go
package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrProfileNotFound is returned when no profile document exists yet
var ErrProfileNotFound = errors.New("user: profile not found")

// Gender values accepted on the profile
const (
	GenderUnset  = ""
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// BirthdayLayout is the stored birthday format
const BirthdayLayout = "2006-01-02"

// Profile holds the dashboard fields of a user
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Birthday    string    `json:"birthday"`
	Gender      string    `json:"gender"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Age returns the age in whole years at now, or -1 without a birthday
func (p *Profile) Age(now time.Time) int {
	if p.Birthday == "" {
		return -1
	}
	born, err := time.Parse(BirthdayLayout, p.Birthday)
	if err != nil {
		return -1
	}
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	return years
}

// normalizeEmail trims and lowercases an email address
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Repository persists profiles
type Repository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	PutProfile(ctx context.Context, p *Profile) error
}
