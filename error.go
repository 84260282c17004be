package rawhttp

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Code is an error code that mirrors the http status codes. It can be used to create errors to pass around across
// middleware layers to handle errors structurally.
type Code int

const (
	CodeUnknown             Code = 0
	CodeOK                  Code = 200 // RFC 9110, 15.3.1
	CodeCreated             Code = 201 // RFC 9110, 15.3.2
	CodeBadRequest          Code = 400 // RFC 9110, 15.5.1
	CodeNotFound            Code = 404 // RFC 9110, 15.5.5
	CodeInternalServerError Code = 500 // RFC 9110, 15.6.1
)

// reasonPhrases is the closed table of status codes the server renders by name.
var reasonPhrases = map[Code]string{
	CodeOK:                  "OK",
	CodeCreated:             "Created",
	CodeBadRequest:          "Bad Request",
	CodeNotFound:            "Not Found",
	CodeInternalServerError: "Internal Server Error",
}

// ReasonPhrase returns the phrase written on the status line. Codes outside the closed table
// render with the generic "Internal Server Error" phrase.
func (c Code) ReasonPhrase() string {
	if p, ok := reasonPhrases[c]; ok {
		return p
	}

	return reasonPhrases[CodeInternalServerError]
}

// Error describes an http error.
type Error struct {
	code Code
	err  error
}

// NewError inits a new error given the error code.
func NewError(c Code, underlying error) *Error {
	return &Error{c, underlying}
}

func (e *Error) Code() Code { return e.code }
func (e *Error) Error() string {
	status, ok := reasonPhrases[e.Code()]
	if !ok {
		status = "Unknown"
	}

	return fmt.Sprintf("%s: %s", status, e.err.Error())
}

// Message is the underlying error text, as rendered in the response body.
func (e *Error) Message() string { return e.err.Error() }

func (e *Error) Unwrap() error { return e.err }

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if rawErr, ok := asError(err); ok {
		return rawErr.Code()
	}
	return CodeUnknown
}

// asError uses errors.As to unwrap any error and look for a *Error.
func asError(err error) (*Error, bool) {
	var rawErr *Error
	ok := errors.As(err, &rawErr)
	return rawErr, ok
}
