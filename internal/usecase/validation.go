package usecase

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OfferChecker reports whether an offer code belongs to the catalog.
type OfferChecker interface {
	Has(code string) bool
}

func ValidateCreateLeadInput(input CreateLeadInput, offers OfferChecker) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.FirstName) == "" {
		errors = append(errors, ValidationError{"firstName", "is required"})
	}

	if strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	}

	if email := strings.TrimSpace(input.Email); email != "" && !IsValidEmail(email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if code := strings.TrimSpace(input.OfferCode); code != "" && offers != nil && !offers.Has(code) {
		errors = append(errors, ValidationError{"offerCode", "is not a known offer"})
	}

	return errors
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func fieldMap(errs []ValidationError) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field] = e.Message
	}
	return fields
}
