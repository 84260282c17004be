package rawhttp

import (
	"net/url"

	"github.com/tidwall/gjson"
)

// Method is the request method token.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
)

var knownMethods = map[Method]struct{}{
	MethodGet: {}, MethodHead: {}, MethodPost: {}, MethodPut: {},
	MethodPatch: {}, MethodDelete: {}, MethodOptions: {},
}

// Valid reports whether m is one of the methods the server understands. Method tokens are
// case-sensitive.
func (m Method) Valid() bool {
	_, ok := knownMethods[m]
	return ok
}

// permitsBody reports whether a body sent with m is kept on the request.
func (m Method) permitsBody() bool {
	return m == MethodPost || m == MethodPut
}

// Request is one parsed request. It is read-only after parsing except for ID, which the
// router sets when a parametric route matched.
type Request struct {
	Method  Method
	Path    string // percent-decoded, without the query string
	Version string // carried, never validated
	Header  Header
	Query   url.Values
	Body    []byte // nil unless the method permits a body and one was framed

	// JSON is the decoded body. It is nil unless the content-type names application/json and
	// a body was present; a body that fails to decode rejects the whole request instead.
	JSON *gjson.Result

	// ID is the resource identifier taken from a parametric route such as "/data/{id}".
	// A matched segment is never empty, so "" means no identifier.
	ID string

	RemoteAddr string
}
