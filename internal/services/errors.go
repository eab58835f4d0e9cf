package services

import "errors"

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
)

// Error carries a client-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func badRequest(msg string) error   { return &Error{Kind: ErrBadRequest, Message: msg} }
func unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }
func notFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
