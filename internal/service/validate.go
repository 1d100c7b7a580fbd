package service

import (
	"regexp"
	"strings"

	"github.com/Skotchmaster/dojo_backoffice/internal/models"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 50
	MinPasswordLen = 8
	MaxPasswordLen = 72
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	clockPattern    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)
)

func ValidateUsername(username string) error {
	if n := len(username); n < MinUsernameLen || n > MaxUsernameLen {
		return validationf("username must be %d-%d characters", MinUsernameLen, MaxUsernameLen)
	}
	if !usernamePattern.MatchString(username) {
		return validationf("username may contain only letters, digits and underscore")
	}
	return nil
}

// ValidatePassword bounds the length in bytes; bcrypt ignores input past 72 bytes.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return validationf("password must be at least %d characters", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return validationf("password must be at most %d bytes", MaxPasswordLen)
	}
	return nil
}

func ParseRole(s string) (models.Role, error) {
	if s == "" {
		return models.RoleUser, nil
	}
	r := models.Role(s)
	if !r.Valid() {
		return "", validationf("role must be %q or %q", models.RoleAdmin, models.RoleUser)
	}
	return r, nil
}

func validateScheduleType(t string) error {
	if t != models.ScheduleTypePrivate && t != models.ScheduleTypeGroup {
		return validationf("type must be %q or %q", models.ScheduleTypePrivate, models.ScheduleTypeGroup)
	}
	return nil
}

func validateClock(field string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if !clockPattern.MatchString(*v) {
		return validationf("%s must be HH:MM", field)
	}
	return nil
}

func requireText(field, v string, max int) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return validationf("%s is required", field)
	}
	if len(v) > max {
		return validationf("%s must be at most %d characters", field, max)
	}
	return nil
}
