package rawhttp

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Header maps lower-cased header names to their trimmed values. When a request repeats a
// header name the first occurrence wins.
type Header map[string]string

// Get returns the value for name, matched case-insensitively. It returns "" when absent.
func (h Header) Get(name string) string {
	return h[strings.ToLower(name)]
}

// Lookup is like Get but reports whether the header was present.
func (h Header) Lookup(name string) (string, bool) {
	v, ok := h[strings.ToLower(name)]
	return v, ok
}

// Set stores value under the lower-cased name, replacing any previous value.
func (h Header) Set(name, value string) {
	h[strings.ToLower(name)] = value
}

// Keys returns the header names in sorted order.
func (h Header) Keys() []string {
	keys := lo.Keys(h)
	slices.Sort(keys)

	return keys
}

// add stores value unless name is already present.
func (h Header) add(name, value string) {
	if _, exists := h[name]; exists {
		return
	}
	h[name] = value
}

// parseHeaderLines parses the lines that follow the request line, up to the first empty
// line. Malformed lines do not stop the scan: the returned Header holds every well-formed
// field and the error reports the first malformed one. The framer relies on this to find
// Content-Length even when the parser is going to reject the request.
func parseHeaderLines(lines []string) (Header, error) {
	h := make(Header, len(lines))

	var first error
	for _, line := range lines {
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			if first == nil {
				first = newParseError(ReasonMalformedHeader,
					errors.Newf("header line %q is not a name: value pair", line))
			}
			continue
		}

		h.add(name, strings.TrimSpace(value))
	}

	return h, first
}
