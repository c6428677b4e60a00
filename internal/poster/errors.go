package poster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// TransportError is returned when a request never produced an HTTP response:
// connection failures, DNS errors, timeouts.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request gave up waiting for the platform.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// APIError is returned when the platform answered with a non-success status,
// or with a success status but a payload that cannot be used.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.StatusCode, e.Body)
}

// Message extracts the platform's error messages from a body shaped like
// {"errors":[{"message":"...","code":123}]}. It returns "" for other bodies.
func (e *APIError) Message() string {
	var payload struct {
		Errors []struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err != nil {
		return ""
	}

	msgs := make([]string, 0, len(payload.Errors))
	for _, item := range payload.Errors {
		if item.Message == "" {
			continue
		}
		if item.Code != 0 {
			msgs = append(msgs, fmt.Sprintf("%s (code %d)", item.Message, item.Code))
		} else {
			msgs = append(msgs, item.Message)
		}
	}
	return strings.Join(msgs, "; ")
}

// Unauthorized reports whether the platform rejected the credential.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
