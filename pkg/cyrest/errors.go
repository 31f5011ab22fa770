package cyrest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned when CyREST answers 404.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for transport failures and 5xx responses.
	ErrNetwork = errors.New("network error")
)

// APIError is a non-2xx CyREST response.
type APIError struct {
	Method   string
	Path     string
	Status   int
	Messages []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	if len(e.Messages) > 0 {
		msg += ": " + strings.Join(e.Messages, "; ")
	}
	return msg
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= 500:
		return ErrNetwork
	}
	return nil
}

// CommandError is a command that ran but reported errors in its response.
type CommandError struct {
	Command  string
	Messages []string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %s", e.Command, strings.Join(e.Messages, "; "))
}

// IsNotFound reports whether err is a 404 from CyREST.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// errorBody is the CyREST CI error envelope.
type errorBody struct {
	Errors []struct {
		Status  int    `json:"status"`
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (b errorBody) messages() []string {
	var out []string
	for _, e := range b.Errors {
		if e.Message != "" {
			out = append(out, e.Message)
		}
	}
	return out
}
