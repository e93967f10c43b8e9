// Package errors is the classified error shared by the remote adapter and the
// local control API.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies where a failure came from.
type Kind int

const (
	KindOther Kind = iota
	// Connectivity, timeouts, canceled contexts.
	KindNetwork
	// The response body didn't have the expected shape.
	KindDecode
	// The server answered with a non-2xx status.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindServer:
		return "server"
	default:
		return "other"
	}
}

// Error represents a universal error type between the packages.
type Error struct {
	Kind    Kind
	Status  int
	Err     error // The error this wraps
	Details []Detail
}

type Detail struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s %d: %s", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %d: %s, details: %v", e.Kind, e.Status, e.Err, e.Details)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ClientError reports a 4xx from the server.
func (e *Error) ClientError() bool {
	return e.Kind == KindServer && e.Status >= 400 && e.Status < 500
}

// ServerError reports a 5xx from the server.
func (e *Error) ServerError() bool {
	return e.Kind == KindServer && e.Status >= 500
}

type transport struct {
	Message string   `json:"message"`
	Details []Detail `json:"details"`
	Status  int      `json:"status"`
}

func (e *Error) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(transport{
		Message: msg,
		Details: e.Details,
		Status:  e.Status,
	})
}

func (e *Error) UnmarshalJSON(byts []byte) error {
	t := transport{}
	if err := json.Unmarshal(byts, &t); err != nil {
		return err
	}

	e.Err = errors.New(t.Message)
	e.Details = t.Details
	e.Status = t.Status
	return nil
}

// E builds an [Error] out of whatever it's given: a message, a wrapped error,
// a status code, a [Kind], or details.
func E(args ...any) *Error {
	ret := &Error{
		Kind:    KindOther,
		Status:  http.StatusInternalServerError,
		Err:     nil,
		Details: nil,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case string:
			ret.Err = errors.New(arg)
		case error:
			ret.Err = arg
		case int:
			ret.Status = arg
		case Kind:
			ret.Kind = arg
		case Detail:
			ret.Details = append(ret.Details, arg)
		case []Detail:
			ret.Details = append(ret.Details, arg...)
		}
	}

	return ret
}

// IsKind reports whether any [Error] in err's chain has the kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
