package rawhttp

import (
	"bytes"
	"maps"
	"slices"
	"sync"
)

var bufferPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// ResponseBuffer is the [ResponseWriter] handed to handlers. Nothing reaches the connection
// until the handler returned and the buffer was turned into a [Response].
type ResponseBuffer struct {
	code        Code
	contentType string
	header      Header
	buf         *bytes.Buffer
}

// NewResponseBuffer takes a buffer from the pool. Call Free when done.
func NewResponseBuffer() *ResponseBuffer {
	buf, _ := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()

	return &ResponseBuffer{header: Header{}, buf: buf}
}

func (b *ResponseBuffer) Write(p []byte) (int, error)       { return b.buf.Write(p) }
func (b *ResponseBuffer) WriteString(s string) (int, error) { return b.buf.WriteString(s) }
func (b *ResponseBuffer) Header() Header                    { return b.header }
func (b *ResponseBuffer) WriteHeader(code Code)             { b.code = code }
func (b *ResponseBuffer) SetContentType(ct string)          { b.contentType = ct }

// Code is the status set with WriteHeader, or 200 when none was set.
func (b *ResponseBuffer) Code() Code {
	if b.code == CodeUnknown {
		return CodeOK
	}
	return b.code
}

// Reset discards everything written so far, including status and headers.
func (b *ResponseBuffer) Reset() {
	b.code = CodeUnknown
	b.contentType = ""
	clear(b.header)
	b.buf.Reset()
}

// Free returns the underlying buffer to the pool. The ResponseBuffer must not be used afterwards.
func (b *ResponseBuffer) Free() {
	if b.buf == nil {
		return
	}

	bufferPool.Put(b.buf)
	b.buf = nil
}

// Response copies the buffered state into a Response that outlives the buffer.
func (b *ResponseBuffer) Response() Response {
	return Response{
		Code:        b.Code(),
		Body:        slices.Clone(b.buf.Bytes()),
		ContentType: b.contentType,
		Header:      maps.Clone(b.header),
	}
}

var _ ResponseWriter = &ResponseBuffer{}
