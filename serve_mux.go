package rawhttp

import (
	"fmt"
	"strings"
)

// Router maps a method and a decoded path to a handler. For parametric routes it also returns
// the identifier taken from the path.
type Router interface {
	Match(method Method, path string) (h Handler, id string, ok bool)
}

type routeKey struct {
	method Method
	path   string
}

// ServeMux is a two-tier router: exact routes first, then single-segment parametric routes
// such as "GET /data/{id}". There is no wildcard, regex or multi-level matching.
type ServeMux struct {
	reverser    *Reverser
	exact       map[routeKey]Handler
	parametric  map[routeKey]Handler // keyed by the collection segment
	middlewares struct {
		captured bool
		buffered []Middleware
	}
}

// NewServeMux creates a new ServeMux with default settings.
func NewServeMux() *ServeMux {
	return NewServeMuxWith(NewReverser())
}

// NewServeMuxWith creates a ServeMux with custom settings.
func NewServeMuxWith(reverser *Reverser) *ServeMux {
	return &ServeMux{
		reverser:   reverser,
		exact:      make(map[routeKey]Handler),
		parametric: make(map[routeKey]Handler),
	}
}

// Reverse returns the url based on the name and parameter values.
func (m *ServeMux) Reverse(name string, vals ...string) (string, error) {
	return m.reverser.Reverse(name, vals...)
}

// Use allows providing of middleware.
func (m *ServeMux) Use(mw ...Middleware) {
	m.ensureNoUseAfterHandle()
	m.middlewares.buffered = append(m.middlewares.buffered, mw...)
}

// HandleFunc handles the request given the pattern using a function.
func (m *ServeMux) HandleFunc(pattern string, handler HandlerFunc, name ...string) {
	m.Handle(pattern, handler, name...)
}

// Handle registers handler for a pattern of the form "METHOD /path" or "METHOD /collection/{param}".
// Registering the same method and path twice panics.
func (m *ServeMux) Handle(pattern string, handler Handler, name ...string) {
	m.middlewares.captured = true

	pat, err := parsePattern(pattern)
	if err != nil {
		panic("rawhttp: " + err.Error())
	}

	table, key := m.exact, routeKey{pat.method, pat.path}
	if pat.param != "" {
		table, key = m.parametric, routeKey{pat.method, pat.segment}
	}

	if _, exists := table[key]; exists {
		panic(fmt.Sprintf("rawhttp: a handler for %q is already registered", pattern))
	}

	if len(name) > 0 {
		m.reverser.Named(name[0], pattern)
	}

	table[key] = Wrap(handler, m.middlewares.buffered...)
}

// Match implements [Router]. An exact route wins over a parametric one; a parametric route
// only matches a path of exactly two segments whose second segment is not empty.
func (m *ServeMux) Match(method Method, path string) (Handler, string, bool) {
	if h, ok := m.exact[routeKey{method, path}]; ok {
		return h, "", true
	}

	rest, ok := strings.CutPrefix(path, "/")
	if !ok {
		return nil, "", false
	}

	collection, id, ok := strings.Cut(rest, "/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return nil, "", false
	}

	h, ok := m.parametric[routeKey{method, collection}]
	if !ok {
		return nil, "", false
	}

	return h, id, true
}

func (m *ServeMux) ensureNoUseAfterHandle() {
	if m.middlewares.captured {
		panic("rawhttp: cannot call Use() after calling Handle")
	}
}

var _ Router = &ServeMux{}
