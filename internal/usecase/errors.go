package usecase

import "errors"

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateLead      = "DUPLICATE_LEAD"
	CodeMissingFields      = "MISSING_FIELDS"
	CodeInvalidOffer       = "INVALID_OFFER"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeForbidden          = "FORBIDDEN"

	CodeDatabase           = "DATABASE_ERROR"
	CodeAdminNotConfigured = "ADMIN_NOT_CONFIGURED"
	CodeTokenSigning       = "TOKEN_ERROR"
)

// DomainError is a user-correctable failure. Fields carries per-field
// messages for validation failures.
type DomainError struct {
	Code    string
	Message string
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an upstream failure. Message is safe to log, never to show.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
