package pokeapi

import (
	"context"
	"errors"
	"fmt"
)

// ErrIDOutOfRange is returned before any request when an id is outside
// [1, max id].
var ErrIDOutOfRange = errors.New("id out of range")

// ErrConnection indicates the request never produced a response.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string {
	return fmt.Errorf("connection: %w", e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates the catalog has no such resource (HTTP 404).
type ErrNotFound struct {
	URL string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("not_found: %s", e.URL)
}

// ErrStatus indicates any other non-2xx answer.
type ErrStatus struct {
	URL  string
	Code int
}

func (e ErrStatus) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.URL)
}

// ErrDecode indicates the body was not the expected document.
type ErrDecode struct {
	Err error
}

func (e ErrDecode) Error() string {
	return fmt.Errorf("decode: %w", e.Err).Error()
}

func (e ErrDecode) Unwrap() error {
	return e.Err
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return "connection"
	}
	var notFound ErrNotFound
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var status ErrStatus
	if errors.As(err, &status) {
		return "status"
	}
	var decode ErrDecode
	if errors.As(err, &decode) {
		return "decode"
	}
	return "other"
}
