// Package validation provides input validation for the prescription
// analysis API.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/DevarneniSindhuja/medical/interfaces"
)

// Bounds for the analyze endpoint inputs. The age range matches the form
// client's slider; the text bound keeps single prescriptions well under the
// request body limit.
const (
	MaxPrescriptionTextLength = 10000
	MaxDrugNameLength         = 100
	MinPatientAge             = 0
	MaxPatientAge             = 100
)

// Drug name path parameters: letters, digits, spaces and safe punctuation
var drugNameRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+']+$`)

// Dangerous patterns as plain strings, strings.Contains is much faster
// than regex for simple substring screening
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "onmouseover=", "eval(", "expression(", "@import",
	// SQL injection patterns
	"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
	// Path traversal patterns
	"../", "..\\", "%2e%2e", "file://",
}

// Compile-time check to ensure InputValidatorImpl implements InputValidator
var _ interfaces.InputValidator = (*InputValidatorImpl)(nil)

// InputValidatorImpl implements the interfaces.InputValidator interface
type InputValidatorImpl struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() *InputValidatorImpl {
	return &InputValidatorImpl{}
}

// ValidatePrescriptionText validates the free-form prescription text
func (v *InputValidatorImpl) ValidatePrescriptionText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("prescription text cannot be empty")
	}

	if len(text) > MaxPrescriptionTextLength {
		return fmt.Errorf("prescription text too long: %d characters (max %d)", len(text), MaxPrescriptionTextLength)
	}

	if !utf8.ValidString(text) {
		return fmt.Errorf("prescription text contains invalid UTF-8")
	}

	lowered := strings.ToLower(text)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("prescription text contains disallowed content")
		}
	}

	return nil
}

// ValidatePatientAge validates the patient age
func (v *InputValidatorImpl) ValidatePatientAge(age int) error {
	if age < MinPatientAge || age > MaxPatientAge {
		return fmt.Errorf("patient age must be between %d and %d, got %d", MinPatientAge, MaxPatientAge, age)
	}
	return nil
}

// ValidateDrugName validates a drug name path parameter
func (v *InputValidatorImpl) ValidateDrugName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("drug name cannot be empty")
	}

	if len(name) > MaxDrugNameLength {
		return fmt.Errorf("drug name too long: %d characters (max %d)", len(name), MaxDrugNameLength)
	}

	if !drugNameRegex.MatchString(name) {
		return fmt.Errorf("drug name contains invalid characters")
	}

	return nil
}
