package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/swarmdash/internal/client"
	"github.com/alfredjeanlab/swarmdash/internal/model"
)

// UnknownError is shown when the backend reports failure without a reason.
const UnknownError = "Unknown error"

// Outcome classifies how a submitted turn resolved.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeApplicationError
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeApplicationError:
		return "application_error"
	case OutcomeTransportFailure:
		return "transport_failure"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ApplicationError is a well-formed reply with success=false.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return UnknownError
	}
	return e.Message
}

// Endpoints names the services a transport failure diagnostic points at.
type Endpoints struct {
	Backend     string
	Coordinator string
}

// Remediation closes every transport failure diagnostic.
const Remediation = "Start the backend and the coordinator, then check with: swarm health"

// Diagnostic renders the agent turn shown when the backend cannot be reached.
// The output depends only on its inputs.
func Diagnostic(ep Endpoints, cause error) string {
	desc := "Connection failed"
	if cause != nil {
		desc = cause.Error()
	}
	var b strings.Builder
	b.WriteString("❌ Unable to connect to backend.\n\n")
	b.WriteString("Please ensure:\n")
	fmt.Fprintf(&b, "1. Backend is running at %s\n", orUnset(ep.Backend))
	fmt.Fprintf(&b, "2. Portfolio Coordinator is running at %s\n", orUnset(ep.Coordinator))
	fmt.Fprintf(&b, "\nError: %s\n\n", desc)
	b.WriteString(Remediation)
	return b.String()
}

func orUnset(s string) string {
	if s == "" {
		return "(not configured)"
	}
	return s
}

// Failure returns the error behind a chat call: err itself, a
// *client.TransportError when there is no reply, an *ApplicationError when the
// reply has success=false, or nil.
func Failure(resp *model.ChatResponse, err error) error {
	switch {
	case err != nil:
		return err
	case resp == nil:
		return &client.TransportError{Endpoint: client.PathChat, Cause: client.ErrMalformedJSON}
	case !resp.Success:
		return &ApplicationError{Message: resp.Error}
	}
	return nil
}

// Classify maps the result of a chat call to its outcome and the text of the
// agent turn that records it. Every non-nil err counts as a transport failure.
func Classify(resp *model.ChatResponse, err error, ep Endpoints) (Outcome, string) {
	fail := Failure(resp, err)
	switch {
	case fail == nil:
		return OutcomeSuccess, resp.Response
	case err == nil && IsApplicationError(fail):
		return OutcomeApplicationError, "Error: " + fail.Error()
	}
	return OutcomeTransportFailure, Diagnostic(ep, fail)
}

// IsApplicationError reports whether err is or wraps an *ApplicationError.
func IsApplicationError(err error) bool {
	var ae *ApplicationError
	return errors.As(err, &ae)
}
