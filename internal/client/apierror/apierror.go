// Package apierror classifies failures of calls to the auth and user services
// and maps them to messages that can be shown to the user.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind - категория ошибки удалённого вызова
type Kind int

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindMethodNotAllowed
	KindConflict
	KindServerError
	KindServiceUnavailable
	// KindNetwork - запрос отправлен, ответа нет
	KindNetwork
	// KindSetup - запрос так и не был отправлен
	KindSetup
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindBadRequest:         "bad_request",
	KindUnauthorized:       "unauthorized",
	KindForbidden:          "forbidden",
	KindNotFound:           "not_found",
	KindMethodNotAllowed:   "method_not_allowed",
	KindConflict:           "conflict",
	KindServerError:        "server_error",
	KindServiceUnavailable: "service_unavailable",
	KindNetwork:            "network",
	KindSetup:              "setup",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Classify maps an HTTP status code to a Kind. It is the only place
// where status codes are interpreted.
func Classify(status int) Kind {
	switch {
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusMethodNotAllowed:
		return KindMethodNotAllowed
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusServiceUnavailable:
		return KindServiceUnavailable
	case status >= 500 && status <= 599:
		return KindServerError
	default:
		return KindUnknown
	}
}

// Error is a failed call to a remote service.
type Error struct {
	Err     error
	Op      string // например "sign-in"
	Message string // сообщение сервера, если было
	Kind    Kind
	Status  int // 0, если ответа не было
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil && e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: server error (%d): %s", e.Op, e.Status, e.Message)
	case e.Err == nil && e.Status != 0:
		return fmt.Sprintf("%s: request failed with status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind, so errors.Is(err, &Error{Kind: KindConflict}) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Status == 0 || t.Status == e.Status)
}

// FromStatus builds an error for a non-2xx response.
func FromStatus(op string, status int, message string) *Error {
	return &Error{
		Op:      op,
		Kind:    Classify(status),
		Status:  status,
		Message: message,
	}
}

// Network builds an error for a request that got no response.
func Network(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNetwork, Err: err}
}

// Setup builds an error for a request that could not be sent.
func Setup(op string, err error) *Error {
	return &Error{Op: op, Kind: KindSetup, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
