package domain

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ShapeError describes a flight record that is missing required sections.
type ShapeError struct {
	Missing []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("flight record missing %s", strings.Join(e.Missing, ", "))
}

// ValidationError is raised locally before any network call. Message is shown
// to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ServiceError is a response from the flight service that reported
// success=false or came back with a non-2xx status.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("flight service error: status %d", e.Status)
	}
	return fmt.Sprintf("flight service error: status %d: %s", e.Status, e.Message)
}

// TransportError covers an unreachable service, timeouts and bodies that
// cannot be decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying network error was a timeout.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// UserMessage picks the text to put in front of the user: the validation
// message, the message reported by the service, or fallback.
func UserMessage(err error, fallback string) string {
	var v *ValidationError
	if errors.As(err, &v) && v.Message != "" {
		return v.Message
	}
	var s *ServiceError
	if errors.As(err, &s) && s.Message != "" {
		return s.Message
	}
	return fallback
}
