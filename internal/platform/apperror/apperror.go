// Package apperror carries the typed failures services hand back to callers:
// validation, conflict, state, not-found and internal errors.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ridloal/factory-inventory/internal/platform/logger"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindState      Kind = "state"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func State(msg string) *Error {
	return &Error{Kind: KindState, Message: msg}
}

func NotFound(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal for anything untyped.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// fieldTagger is implemented by domain validation errors that already carry
// a field -> rule map.
type fieldTagger interface {
	FieldTags() map[string]string
}

// FromValidator converts validator.ValidationErrors, or any error exposing
// FieldTags, into a validation error keyed by field name. Any other error is
// wrapped as a plain validation error.
func FromValidator(err error) *Error {
	var tagged fieldTagger
	if errors.As(err, &tagged) {
		return &Error{Kind: KindValidation, Message: "invalid input", Fields: tagged.FieldTags(), Err: err}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Kind: KindValidation, Message: "invalid input", Err: err}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return Validation("invalid input", fields)
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// KindFromStatus is the inverse of HTTPStatus, used by service clients to
// rebuild typed errors from remote responses. A 409 is read as a conflict.
func KindFromStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}

// Respond writes err as a JSON error body. Internal errors are logged and
// their details hidden from the client.
func Respond(c *gin.Context, err error) {
	kind := KindOf(err)
	status := HTTPStatus(kind)

	body := gin.H{"kind": kind}
	var appErr *Error
	if errors.As(err, &appErr) && kind != KindInternal {
		body["error"] = appErr.Message
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
	} else {
		logger.Error("request failed", err, "method", c.Request.Method, "path", c.FullPath())
		body["error"] = "internal server error"
	}
	c.AbortWithStatusJSON(status, body)
}
