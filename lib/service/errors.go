package service

import (
	"errors"
	"fmt"
)

var (
	ErrExpired     = errors.New("payment request expired")
	ErrAlreadyPaid = errors.New("payment request already paid")
)

// ValidationError rejects creation or submission input before any store
// access happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
