package models

import (
	"strings"

	"github.com/asaskevich/govalidator"

	dErrors "civicid/pkg/domain-errors"
)

// FieldError names a single failing field and its caller-facing message.
type FieldError struct {
	Field   string
	Message string
}

// ValidateRegistration checks the raw signup payload against the kind-specific
// schema and reports every violation, not just the first. An unknown actor
// kind short-circuits because none of the conditional rules apply to it.
func ValidateRegistration(in RegistrationInput) []FieldError {
	kind, ok := ParseActorKind(in.Kind)
	if !ok {
		return []FieldError{{Field: "userType", Message: "Invalid user type"}}
	}

	var errs []FieldError

	if kind == KindCitizen && in.Code != "" {
		errs = append(errs, FieldError{Field: "code", Message: "Code field is not required for citizens"})
	}

	if len(in.Password) < 6 {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 6 characters long"})
	}

	if len(strings.TrimSpace(in.Name)) < 2 {
		errs = append(errs, FieldError{Field: "name", Message: "Name must be at least 2 characters long"})
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !govalidator.IsEmail(email) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email format"})
	}

	switch kind {
	case KindCitizen:
		if !isDigits(in.Mobile, 10) {
			errs = append(errs, FieldError{Field: "mobile", Message: "Mobile number must be 10 digits"})
		}
		if !isDigits(in.NationalID, 12) {
			errs = append(errs, FieldError{Field: "aadhar", Message: "Aadhar number must be 12 digits"})
		}
	case KindOfficial, KindNGO:
		if !isDigits(in.Code, 5) {
			errs = append(errs, FieldError{Field: "code", Message: "Organization code must be 5 digits"})
		}
	}

	return errs
}

// ValidationError folds field errors into a single invalid-input domain error
// with the messages concatenated, mirroring what callers display.
func ValidationError(errs []FieldError) error {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fe.Message)
	}
	return dErrors.New(dErrors.CodeInvalidInput, strings.Join(messages, ", "))
}

func isDigits(s string, length int) bool {
	return len(s) == length && govalidator.IsNumeric(s)
}
