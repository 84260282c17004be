package rawhttp

import (
	"bytes"
	"cmp"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultMaxHeaderBytes bounds the request line plus header block.
	DefaultMaxHeaderBytes = 64 << 10
	// DefaultMaxBodyBytes bounds the declared Content-Length.
	DefaultMaxBodyBytes = 8 << 20

	readChunkSize = 4096
)

var (
	// ErrNoRequest is returned by [ReadFrame] when the peer closed the connection before a
	// complete header block arrived. No response should be written.
	ErrNoRequest = errors.New("rawhttp: connection closed before a request was received")

	// ErrHeaderTooLarge is returned when the header block exceeds the configured limit.
	ErrHeaderTooLarge = errors.New("rawhttp: request header block too large")

	// ErrBodyTooLarge is returned when the declared Content-Length exceeds the configured limit.
	ErrBodyTooLarge = errors.New("rawhttp: declared request body too large")

	headerTerminator = []byte("\r\n\r\n")
)

// FrameLimits bounds what [ReadFrame] is willing to buffer. Zero values select the defaults.
type FrameLimits struct {
	MaxHeaderBytes int
	MaxBodyBytes   int
}

// Frame holds the bytes of exactly one request, split at the header terminator. The header
// block is parsed once, here, and the structured result travels with the frame so that the
// framing decision and the parsed request can never disagree.
type Frame struct {
	RequestLine string
	Header      Header
	Body        []byte

	head      []byte
	headerErr error
}

// newFrame splits the header block (request line and header lines, no terminator) and parses
// the header fields.
func newFrame(head []byte) *Frame {
	lines := strings.Split(string(head), "\r\n")
	f := &Frame{head: head, RequestLine: lines[0]}
	f.Header, f.headerErr = parseHeaderLines(lines[1:])

	return f
}

// ContentLength is the declared body length. A missing, unparseable or negative value counts as zero.
func (f *Frame) ContentLength() int {
	v, ok := f.Header.Lookup("content-length")
	if !ok {
		return 0
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}

	return n
}

// ReadFrame reads from r until one complete request is buffered: the header block up to the
// first "\r\n\r\n", followed by as many body bytes as the Content-Length header declares. A
// peer that closes before the declared body is complete yields the shorter body without error.
// Bytes past the declared length are discarded.
func ReadFrame(r io.Reader, lim FrameLimits) (*Frame, error) {
	maxHeader := cmp.Or(lim.MaxHeaderBytes, DefaultMaxHeaderBytes)
	maxBody := cmp.Or(lim.MaxBodyBytes, DefaultMaxBodyBytes)

	var buf []byte
	chunk := make([]byte, readChunkSize)
	end := -1

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			// the terminator may straddle two chunks
			from := max(0, len(buf)-len(headerTerminator)+1)
			buf = append(buf, chunk[:n]...)

			if i := bytes.Index(buf[from:], headerTerminator); i >= 0 {
				end = from + i
				break
			}

			if len(buf) > maxHeader {
				return nil, ErrHeaderTooLarge
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoRequest
			}
			return nil, errors.Wrap(err, "read request header")
		}
	}

	if end > maxHeader {
		return nil, ErrHeaderTooLarge
	}

	f := newFrame(buf[:end])
	body := buf[end+len(headerTerminator):]

	declared := f.ContentLength()
	if declared > maxBody {
		return nil, ErrBodyTooLarge
	}

	if len(body) >= declared {
		body = body[:declared]
	} else {
		rest := make([]byte, declared-len(body))
		n, err := io.ReadFull(r, rest)
		body = append(body, rest[:n]...)

		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrap(err, "read request body")
		}
	}

	if len(body) > 0 {
		f.Body = body
	}

	return f, nil
}

// splitFrame frames an already complete byte sequence. Without a header terminator the whole
// input is treated as the header block.
func splitFrame(raw []byte) *Frame {
	end := bytes.Index(raw, headerTerminator)
	if end < 0 {
		return newFrame(bytes.TrimSuffix(raw, []byte("\r\n")))
	}

	f := newFrame(raw[:end])
	body := raw[end+len(headerTerminator):]
	body = body[:min(len(body), f.ContentLength())]

	if len(body) > 0 {
		f.Body = body
	}

	return f
}
