// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by the client.
var (
	ErrUnavailable  = errors.New("project service unavailable")
	ErrUnauthorized = errors.New("not authorized")
	ErrNotFound     = errors.New("project not found")
	ErrMissingToken = errors.New("missing auth token")
)

// RemoteError is a non-2xx response from the project service. Message holds
// the service's {"error": "..."} text when it sent one.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("project service returned %d", e.Status)
	}
	return fmt.Sprintf("project service returned %d: %s", e.Status, e.Message)
}

// Unwrap maps auth, lookup and gateway statuses to the package sentinels so
// callers can use errors.Is.
func (e *RemoteError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	}
	return nil
}

// Message returns text suitable for a flash notification.
func Message(err error) string {
	var re *RemoteError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &re) && re.Message != "":
		return re.Message
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrNotFound):
		return "Project not found."
	case errors.Is(err, ErrUnavailable):
		return "The project service is unreachable. Please try again later."
	}
	return "Something went wrong. Please try again."
}
