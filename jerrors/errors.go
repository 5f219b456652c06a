// Package jerrors defines the error values returned by resolvers and the
// shape they take in the "errors" array of a GraphQL response.
package jerrors

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql/gqlerrors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Location is a line/column position inside the GraphQL query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ErrorExtensions carries the machine readable part of an Error.
type ErrorExtensions struct {
	Code string `json:"code"`
}

// Error is the serialized form of a GraphQL error.
type Error struct {
	Message    string          `json:"message"`
	Locations  []Location      `json:"locations,omitempty"`
	Path       []interface{}   `json:"path,omitempty"`
	Extensions ErrorExtensions `json:"extensions"`
}

func (e *Error) Error() string {
	return e.Message
}

// codedError is the error value handed to the executor. The executor reads
// its extensions through gqlerrors.ExtendedError, everything else reads the
// code through GRPCStatus.
type codedError struct {
	code  codes.Code
	msg   string
	cause error
}

func (e *codedError) Error() string {
	return e.msg
}

func (e *codedError) Unwrap() error {
	return e.cause
}

func (e *codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code.String()}
}

func (e *codedError) GRPCStatus() *status.Status {
	return status.New(e.code, e.msg)
}

var _ gqlerrors.ExtendedError = (*codedError)(nil)

// New returns an error with the given code and message.
func New(code codes.Code, msg string) error {
	return &codedError{code: code, msg: msg}
}

// Errorf is New with a format string.
func Errorf(code codes.Code, format string, args ...interface{}) error {
	return &codedError{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to err. The message of the returned error is the
// message of err, so wrapping never changes what the client reads. A nil err
// yields nil.
func Wrap(code codes.Code, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, msg: err.Error(), cause: err}
}

// Code returns the code carried by err or any error it wraps. Errors without
// a code report codes.Unknown and nil reports codes.OK.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	var se interface{ GRPCStatus() *status.Status }
	if errors.As(err, &se) {
		return se.GRPCStatus().Code()
	}
	return codes.Unknown
}

// Is reports whether err carries the given code.
func Is(err error, code codes.Code) bool {
	return err != nil && Code(err) == code
}

// ConvertError converts any error into its serialized form.
func ConvertError(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}

	msg := err.Error()
	var se interface{ GRPCStatus() *status.Status }
	if errors.As(err, &se) {
		msg = se.GRPCStatus().Message()
	}

	return &Error{
		Message:    msg,
		Extensions: ErrorExtensions{Code: Code(err).String()},
	}
}

// ConvertFormatted converts an error produced by the executor. The code is
// taken from the extensions set by a resolver error, if any.
func ConvertFormatted(fe gqlerrors.FormattedError) *Error {
	e := &Error{
		Message:    fe.Message,
		Path:       fe.Path,
		Extensions: ErrorExtensions{Code: codes.Unknown.String()},
	}
	for _, loc := range fe.Locations {
		e.Locations = append(e.Locations, Location{Line: loc.Line, Column: loc.Column})
	}
	if code, ok := fe.Extensions["code"].(string); ok && code != "" {
		e.Extensions.Code = code
	}
	return e
}

// ConvertFormattedList converts every executor error, preserving order.
func ConvertFormattedList(list []gqlerrors.FormattedError) []*Error {
	if len(list) == 0 {
		return nil
	}
	out := make([]*Error, 0, len(list))
	for _, fe := range list {
		out = append(out, ConvertFormatted(fe))
	}
	return out
}
