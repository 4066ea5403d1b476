package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// NetworkError means no response was received (dial failure, timeout, reset).
type NetworkError struct {
	Method string
	Path   string
	Cause  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// HTTPError is a response with a non-2xx status. Detail carries the backend's
// "detail" field when present.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Message turns any request error into user-facing text: the backend detail
// when one was returned, otherwise fallback.
func Message(err error, fallback string) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Detail != "" {
		return httpErr.Detail
	}
	return fallback
}

// extractDetail reads {"detail": ...} from an error body. FastAPI-style
// backends send either a string or a list of {"msg": ...} objects.
func extractDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
