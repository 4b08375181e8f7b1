package client

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// ErrSessionTerminated signals that no usable credential remains: the refresh
// token was missing, rejected, or expired, and the store has been cleared.
// The caller must re-authenticate.
var ErrSessionTerminated = errors.New("session terminated, please log in again")

const genericErrorMessage = "Something went wrong. Please try again."

// APIError is a non-2xx response decoded into a human-readable message.
// Fields carries per-field validation messages when the server keyed the
// error by form field.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// newAPIError extracts a message from a structured error body. Well-known
// keys win; otherwise the first field (in sorted key order, since the server
// guarantees no ordering) with a non-empty string or string array is used.
// An absent or unrecognised body falls back to a generic message.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Message: genericErrorMessage}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return apiErr
	}

	for _, key := range []string{"detail", "error", "message"} {
		if msg, ok := decodeErrorValue(raw[key]); ok {
			apiErr.Message = msg

			return apiErr
		}
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	messageFound := false
	for _, key := range keys {
		msg, ok := decodeErrorValue(raw[key])
		if !ok {
			continue
		}
		if !messageFound {
			apiErr.Message = msg
			messageFound = true
		}
		if fieldMsgs := decodeStringArray(raw[key]); fieldMsgs != nil {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = fieldMsgs
		}
	}

	return apiErr
}

// decodeErrorValue accepts a string or a non-empty string array and returns
// the message it carries.
func decodeErrorValue(value json.RawMessage) (string, bool) {
	if value == nil {
		return "", false
	}

	var str string
	if err := json.Unmarshal(value, &str); err == nil && str != "" {
		return str, true
	}

	var list []string
	if err := json.Unmarshal(value, &list); err == nil && len(list) > 0 && list[0] != "" {
		return list[0], true
	}

	return "", false
}

func decodeStringArray(value json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(value, &list); err != nil || len(list) == 0 {
		return nil
	}

	return list
}
