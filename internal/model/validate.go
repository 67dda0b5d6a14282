package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateInvestment checks an InvestmentRequest for constraint violations and
// fills in the default currency. It returns a *ValidationError if any rules
// fail, or nil if the request is valid.
func ValidateInvestment(r *InvestmentRequest) error {
	var ve ValidationError

	if strings.TrimSpace(r.UserID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "user_id", Message: "is required"})
	}

	if r.Amount <= 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "amount",
			Message: fmt.Sprintf("must be greater than 0, got %g", r.Amount),
		})
	}

	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}

	if !r.RiskLevel.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "risk_level",
			Message: fmt.Sprintf("invalid value %q", r.RiskLevel),
		})
	}

	if len(r.Chains) == 0 {
		ve.Errors = append(ve.Errors, FieldError{Field: "chains", Message: "at least one chain is required"})
	}
	for _, c := range r.Chains {
		if !c.IsValid() {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "chains",
				Message: fmt.Sprintf("invalid value %q", c),
			})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
