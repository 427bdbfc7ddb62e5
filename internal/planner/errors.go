package planner

import (
	"errors"

	"ai-content-planner/internal/llm"
	"ai-content-planner/internal/profile"
)

// FailureMessage is shown to users whenever generation fails. The cause is
// only logged.
const FailureMessage = "Failed to generate plan. Please verify your API Key and try again."

// ErrorKind classifies a GeneratePlan error for logs and metrics labels.
func ErrorKind(err error) string {
	var (
		decodeErr *DecodeError
		verr      *profile.ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "invalid_profile"
	case errors.Is(err, ErrGenerationInProgress):
		return "in_progress"
	case errors.Is(err, llm.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "empty_response"
	case errors.As(err, &decodeErr):
		return "decode"
	default:
		return "provider"
	}
}
