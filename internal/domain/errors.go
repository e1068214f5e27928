package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownModule  = errors.New("unknown module")
	ErrInvalidLayout  = errors.New("invalid layout order")
	ErrLayoutNotFound = errors.New("layout order not found")

	ErrUpstream  = errors.New("rate provider upstream failure")
	ErrEmpty     = errors.New("rate provider returned no adverts")
	ErrMalformed = errors.New("rate provider returned malformed advert")
)

type FetchErrorKind int

const (
	FetchUpstream FetchErrorKind = iota
	FetchEmpty
	FetchMalformed
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchUpstream:
		return "upstream"
	case FetchEmpty:
		return "empty"
	case FetchMalformed:
		return "malformed"
	}
	return "unknown"
}

// FetchError is returned by rate fetchers. Status carries the HTTP status
// for upstream failures and is zero otherwise.
type FetchError struct {
	Kind   FetchErrorKind
	Status int
	Err    error
}

func NewFetchError(kind FetchErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch rate: %s", e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets callers match a FetchError against ErrUpstream, ErrEmpty or ErrMalformed.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrUpstream:
		return e.Kind == FetchUpstream
	case ErrEmpty:
		return e.Kind == FetchEmpty
	case ErrMalformed:
		return e.Kind == FetchMalformed
	}
	return false
}
