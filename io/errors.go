package io

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrReservedName = errors.New("name is reserved")
	ErrInvalidField = errors.New("invalid field")
)

// ReservedName is owned by the built-in shader and material.
const ReservedName = "default"

// ValidationError reports a manifest entry that was skipped.
type ValidationError struct {
	Kind  string // shader, texture, material or mesh
	Index int
	Name  string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s #%d: %v", e.Kind, e.Index, e.Err)
	}
	return fmt.Sprintf("%s #%d %q: %v", e.Kind, e.Index, e.Name, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NetworkError is a failed fetch. Status is the HTTP status code when the
// server answered, zero for transport or file system failures.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
