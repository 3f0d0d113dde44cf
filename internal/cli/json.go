package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/remote"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigInvalid      = "CONFIG_INVALID"
	ErrCodeBackendUnreachable = "BACKEND_UNREACHABLE"
	ErrCodeBackendError       = "BACKEND_ERROR"
	ErrCodeBadResponse        = "BAD_RESPONSE"
	ErrCodeActionFailed       = "ACTION_FAILED"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeStateFile          = "STATE_FILE"
	ErrCodeUnknown            = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	if sdnErr, ok := errors.As(err); ok {
		out := &JSONError{
			Code:       mapErrorCode(sdnErr.Code),
			Message:    sdnErr.Message,
			Suggestion: sdnErr.Suggestion,
		}
		if callErr := callError(err); callErr != nil {
			out.Details = callErrorDetails(callErr)
		}
		return out
	}

	if callErr := callError(err); callErr != nil {
		return callErrorToJSON(callErr)
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode string) string {
	switch internalCode {
	case errors.ErrConfig:
		return ErrCodeConfigInvalid
	case errors.ErrNetwork:
		return ErrCodeBackendUnreachable
	case errors.ErrHTTP:
		return ErrCodeBackendError
	case errors.ErrDecode:
		return ErrCodeBadResponse
	case errors.ErrAction:
		return ErrCodeActionFailed
	case errors.ErrValidate:
		return ErrCodeInvalidInput
	case errors.ErrStore:
		return ErrCodeStateFile
	}
	return ErrCodeUnknown
}

func callError(err error) *remote.CallError {
	var callErr *remote.CallError
	if stderrors.As(err, &callErr) {
		return callErr
	}
	return nil
}

// callErrorToJSON maps a transport failure by kind.
func callErrorToJSON(callErr *remote.CallError) *JSONError {
	out := &JSONError{
		Message: callErr.Error(),
		Details: callErrorDetails(callErr),
	}
	switch callErr.Kind {
	case remote.NetworkError:
		out.Code = ErrCodeBackendUnreachable
		out.Suggestion = "Check that the backend is running and reachable."
	case remote.HTTPError:
		out.Code = ErrCodeBackendError
	case remote.DecodeError:
		out.Code = ErrCodeBadResponse
		out.Suggestion = "The backend answered with something other than JSON; check the URL."
	default:
		out.Code = ErrCodeUnknown
	}
	return out
}

func callErrorDetails(callErr *remote.CallError) map[string]interface{} {
	details := map[string]interface{}{
		"kind":     callErr.Kind.String(),
		"endpoint": callErr.Endpoint,
	}
	if callErr.Status != 0 {
		details["status"] = callErr.Status
	}
	return details
}
