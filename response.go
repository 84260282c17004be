package rawhttp

import (
	"fmt"
	"html"
	"net/http"
	"net/textproto"
	"strconv"
	"time"
)

const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json"

	// DefaultServerName is the token written in the Server header.
	DefaultServerName = "rawhttp"
)

// framingHeaders are always written by the builder and cannot be set by handlers.
var framingHeaders = map[string]struct{}{
	"content-type": {}, "content-length": {}, "date": {}, "server": {}, "connection": {},
}

// Response is a fully buffered response, ready to be serialized.
type Response struct {
	Code        Code
	Body        []byte
	ContentType string
	Header      Header // extra headers, framing headers are ignored
}

// TextResponse builds a plain text response.
func TextResponse(code Code, msg string) Response {
	return Response{Code: code, Body: []byte(msg), ContentType: ContentTypeText}
}

// HTMLResponse builds a small error page for code with detail as its paragraph.
func HTMLResponse(code Code, detail string) Response {
	title := fmt.Sprintf("%d %s", code, code.ReasonPhrase())
	body := fmt.Sprintf("<!DOCTYPE html>\n<html><head><title>%s</title></head>"+
		"<body><h1>%s</h1><p>%s</p></body></html>\n", title, title, html.EscapeString(detail))

	return Response{Code: code, Body: []byte(body), ContentType: ContentTypeHTML}
}

// Bytes serializes the response as HTTP/1.1. Content-Length always equals len(r.Body), the
// connection is always marked for closing, and Date is stamped from now.
func (r Response) Bytes(now time.Time, server string) []byte {
	code := r.Code
	if code == CodeUnknown {
		code = CodeInternalServerError
	}

	ct := r.ContentType
	if ct == "" {
		ct = ContentTypeText
	}

	if server == "" {
		server = DefaultServerName
	}

	out := make([]byte, 0, 256+len(r.Body))
	out = append(out, "HTTP/1.1 "...)
	out = strconv.AppendInt(out, int64(code), 10)
	out = append(out, ' ')
	out = append(out, code.ReasonPhrase()...)
	out = append(out, "\r\n"...)

	out = appendHeader(out, "Content-Type", ct)
	out = appendHeader(out, "Content-Length", strconv.Itoa(len(r.Body)))
	out = appendHeader(out, "Date", now.UTC().Format(http.TimeFormat))
	out = appendHeader(out, "Server", server)
	out = appendHeader(out, "Connection", "close")

	for _, name := range r.Header.Keys() {
		if _, reserved := framingHeaders[name]; reserved {
			continue
		}
		out = appendHeader(out, textproto.CanonicalMIMEHeaderKey(name), r.Header[name])
	}

	out = append(out, "\r\n"...)
	return append(out, r.Body...)
}

func appendHeader(out []byte, name, value string) []byte {
	out = append(out, name...)
	out = append(out, ": "...)
	out = append(out, value...)
	return append(out, "\r\n"...)
}
