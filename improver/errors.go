package improver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingCredential = errors.New("no api key configured")
	ErrEmptyPrompt       = errors.New("prompt is empty")
	ErrInvalidCredential = errors.New("api key is invalid")
	ErrMalformedResponse = errors.New("model returned a malformed response")
	ErrBusy              = errors.New("an improve request is already in progress")
	ErrInvalidRequest    = errors.New("request body is not a valid improve request")
)

// Kind names the failure class of an improve request.
type Kind string

const (
	KindSuccess           Kind = "success"
	KindMissingCredential Kind = "missing_credential"
	KindEmptyPrompt       Kind = "empty_prompt"
	KindInvalidCredential Kind = "invalid_credential"
	KindMalformedResponse Kind = "malformed_response"
	KindBusy              Kind = "busy"
	KindInvalidRequest    Kind = "invalid_request"
	KindGeneric           Kind = "error"
)

// classifyProviderError marks errors that carry the provider's
// invalid-credential text. Everything else passes through untouched.
func classifyProviderError(err error, marker string) error {
	if err == nil {
		return nil
	}
	if marker != "" && strings.Contains(err.Error(), marker) {
		return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	return err
}

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindSuccess
	case errors.Is(err, ErrMissingCredential):
		return KindMissingCredential
	case errors.Is(err, ErrEmptyPrompt):
		return KindEmptyPrompt
	case errors.Is(err, ErrInvalidCredential):
		return KindInvalidCredential
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	default:
		return KindGeneric
	}
}
