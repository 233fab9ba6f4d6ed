// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FallbackMessage is used when the server gives no message.
const FallbackMessage = "Something went wrong"

// HTTPError is returned for every failed request.
// Status is 0 when the request never produced a response.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("api: network error: %v", e.Err)
		}
		return "api: network error"
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newHTTPError(status int, body []byte) *HTTPError {
	msg := FallbackMessage
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		switch {
		case strings.TrimSpace(eb.Message) != "":
			msg = eb.Message
		case strings.TrimSpace(eb.Error) != "":
			msg = eb.Error
		}
	}
	return &HTTPError{Status: status, Message: msg}
}

func asHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	he, ok := asHTTPError(err)
	return ok && he.Status == http.StatusNotFound
}

// IsAuth reports whether err is a 401 or 403 response.
func IsAuth(err error) bool {
	he, ok := asHTTPError(err)
	return ok && (he.Status == http.StatusUnauthorized || he.Status == http.StatusForbidden)
}

// IsNetwork reports whether err never produced a response.
func IsNetwork(err error) bool {
	he, ok := asHTTPError(err)
	return ok && he.Status == 0
}

// IsClientError reports whether err is a 4xx response.
func IsClientError(err error) bool {
	he, ok := asHTTPError(err)
	return ok && he.Status >= 400 && he.Status < 500
}

// Message returns the user-facing message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if he, ok := asHTTPError(err); ok && he.Message != "" {
		return he.Message
	}
	return FallbackMessage
}
