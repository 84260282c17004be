package rawhttp

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// Reason tags why a request was rejected as malformed.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonInvalidEncoding
	ReasonMalformedRequestLine
	ReasonUnknownMethod
	ReasonMalformedTarget
	ReasonMalformedHeader
	ReasonInvalidJSON
)

func (r Reason) String() string {
	switch r {
	case ReasonInvalidEncoding:
		return "Request is not valid UTF-8"
	case ReasonMalformedRequestLine:
		return "Malformed request line"
	case ReasonUnknownMethod:
		return "Unsupported request method"
	case ReasonMalformedTarget:
		return "Malformed request target"
	case ReasonMalformedHeader:
		return "Malformed header line"
	case ReasonInvalidJSON:
		return "Invalid JSON body payload"
	default:
		return "Malformed request"
	}
}

// ParseError is returned for every request that cannot be parsed. Callers answer any of them
// with a 400; Reason exists for logging and tests.
type ParseError struct {
	Reason Reason
	err    error
}

func newParseError(reason Reason, cause error) *ParseError {
	return &ParseError{Reason: reason, err: cause}
}

func (e *ParseError) Error() string {
	if e.err == nil {
		return "rawhttp: malformed request: " + e.Reason.String()
	}
	return "rawhttp: malformed request: " + e.Reason.String() + ": " + e.err.Error()
}

func (e *ParseError) Unwrap() error { return e.err }

// IsMalformed reports whether err means the peer sent a request that must be answered with
// a 400: a parse failure or a framing limit violation.
func IsMalformed(err error) bool {
	var perr *ParseError
	return errors.As(err, &perr) ||
		errors.Is(err, ErrHeaderTooLarge) ||
		errors.Is(err, ErrBodyTooLarge)
}

// ParseRequest parses one complete request from raw bytes.
func ParseRequest(raw []byte) (*Request, error) {
	return ParseFrame(splitFrame(raw))
}

// ParseFrame turns a frame produced by [ReadFrame] into a Request. Every failure is a
// [*ParseError].
func ParseFrame(f *Frame) (*Request, error) {
	if !utf8.Valid(f.head) {
		return nil, newParseError(ReasonInvalidEncoding, errors.New("header block"))
	}

	if !utf8.Valid(f.Body) {
		return nil, newParseError(ReasonInvalidEncoding, errors.New("body"))
	}

	method, target, version, err := parseRequestLine(f.RequestLine)
	if err != nil {
		return nil, err
	}

	if f.headerErr != nil {
		return nil, f.headerErr
	}

	path, query, err := parseTarget(target)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method:  method,
		Path:    path,
		Version: version,
		Header:  f.Header,
		Query:   query,
	}

	if method.permitsBody() && len(f.Body) > 0 {
		req.Body = f.Body
	}

	if req.Body != nil && isJSON(req.Header.Get("content-type")) {
		doc, err := decodeJSON(req.Body)
		if err != nil {
			return nil, err
		}
		req.JSON = doc
	}

	return req, nil
}

func parseRequestLine(line string) (Method, string, string, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", newParseError(ReasonMalformedRequestLine,
			errors.Newf("expected 3 tokens in %q, got %d", line, len(parts)))
	}

	method := Method(parts[0])
	if !method.Valid() {
		return "", "", "", newParseError(ReasonUnknownMethod, errors.Newf("method %q", parts[0]))
	}

	return method, parts[1], parts[2], nil
}

func parseTarget(target string) (string, url.Values, error) {
	rawPath, rawQuery, _ := strings.Cut(target, "?")

	path, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", nil, newParseError(ReasonMalformedTarget, errors.Wrap(err, "path"))
	}

	return path, parseQuery(rawQuery), nil
}

// parseQuery splits on '&' only. A key or value with a malformed escape is kept as sent, so
// "?message=100%" and "?message=a;b" both parse.
func parseQuery(raw string) url.Values {
	query := url.Values{}
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}

		k, v, _ := strings.Cut(pair, "=")
		query.Add(unescapeQuery(k), unescapeQuery(v))
	}

	return query
}

func unescapeQuery(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// decodeJSON strips embedded NUL bytes and surrounding whitespace before validating.
func decodeJSON(body []byte) (*gjson.Result, error) {
	doc := bytes.TrimSpace(bytes.ReplaceAll(body, []byte{0}, nil))
	if !gjson.ValidBytes(doc) {
		return nil, newParseError(ReasonInvalidJSON, nil)
	}

	res := gjson.ParseBytes(doc)
	return &res, nil
}
