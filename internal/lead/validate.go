package lead

import (
	"net/mail"
	"strings"

	"github.com/twiced-technology-gmbh/crmboard/internal/clierr"
)

// ValidateLeadID returns a CLIError for invalid lead ID input.
func ValidateLeadID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidLeadID, "invalid lead ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// ValidateName rejects blank lead names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return clierr.New(clierr.InvalidInput, "lead name is required").
			WithDetails(map[string]any{"field": "name"})
	}
	return nil
}

// ValidateEmail accepts empty input or a single RFC 5322 address.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return clierr.Newf(clierr.InvalidInput, "invalid email %q", email).
			WithDetails(map[string]any{"field": "email", "input": email})
	}
	return nil
}

// ValidateFields checks the values a lead is created with.
func ValidateFields(f Fields) error {
	if err := ValidateName(f.Name); err != nil {
		return err
	}
	return ValidateEmail(strings.TrimSpace(f.Email))
}

// ValidatePatch checks the fields a patch would set.
func ValidatePatch(p Patch) error {
	if p.Name != nil {
		if err := ValidateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Email != nil {
		return ValidateEmail(strings.TrimSpace(*p.Email))
	}
	return nil
}
