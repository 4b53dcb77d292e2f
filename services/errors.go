package services

import "errors"

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// ErrListNotFound is returned by list operations on an unknown list id.
var ErrListNotFound = errors.New("list not found")
