package errors

import (
	"fmt"
	"strings"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrConfiguration is returned when required server-side configuration is
// missing or malformed (e.g. an Admin API token without the expected prefix).
// Fatal for the checkout flow; never retried.
type ErrConfiguration struct {
	Message string
}

func (e *ErrConfiguration) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "configuration error"
}

// ErrValidation is returned when request validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrTranslation is returned when a cart line cannot be converted into a
// draft order line item. The line is dropped and checkout continues with the
// remaining lines.
type ErrTranslation struct {
	LineID string
	Reason string
}

func (e *ErrTranslation) Error() string {
	return fmt.Sprintf("cannot translate cart line %s: %s", e.LineID, e.Reason)
}

// ErrNoValidItems is returned when zero cart lines survive translation.
// No draft order request is issued in this case.
type ErrNoValidItems struct{}

func (e *ErrNoValidItems) Error() string {
	return "no valid items to create draft order"
}

// FieldError is a platform user error attached to a specific input field.
type FieldError struct {
	Field   []string
	Message string
}

// ErrSubmission is returned when the platform rejects the draft order, either
// at the HTTP level or via payload-level user errors. Field messages are
// surfaced verbatim.
type ErrSubmission struct {
	Message    string
	UserErrors []FieldError
}

func (e *ErrSubmission) Error() string {
	if len(e.UserErrors) == 0 {
		return e.Message
	}
	msgs := make([]string, len(e.UserErrors))
	for i, ue := range e.UserErrors {
		if len(ue.Field) > 0 {
			msgs[i] = strings.Join(ue.Field, ".") + ": " + ue.Message
		} else {
			msgs[i] = ue.Message
		}
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(msgs, "; "))
}

// ErrInvoiceUnavailable is returned when a draft order was created but no
// invoice URL could be obtained even after a re-fetch. The platform's native
// checkout link uses list prices and is never substituted.
type ErrInvoiceUnavailable struct {
	DraftOrderID string
}

func (e *ErrInvoiceUnavailable) Error() string {
	return fmt.Sprintf("draft order %s created but invoice URL is unavailable", e.DraftOrderID)
}
