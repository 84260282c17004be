package rawhttp

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
)

// pattern is a parsed route pattern such as "GET /data" or "PUT /data/{id}". Only the second
// of exactly two segments may be a placeholder.
type pattern struct {
	str     string
	method  Method
	path    string
	segment string // first segment of a parametric pattern
	param   string // placeholder name, empty for exact patterns
}

func parsePattern(s string) (*pattern, error) {
	if s == "" {
		return nil, errors.New("empty pattern")
	}

	method, path, ok := strings.Cut(s, " ")
	if !ok {
		return nil, errors.Newf("pattern %q has no method", s)
	}

	pat := &pattern{str: s, method: Method(method), path: path}
	if !pat.method.Valid() {
		return nil, errors.Newf("pattern %q has unknown method %q", s, method)
	}

	if !strings.HasPrefix(path, "/") {
		return nil, errors.Newf("pattern %q: path must start with '/'", s)
	}

	segs := strings.Split(path[1:], "/")
	for i, seg := range segs {
		name, isParam := placeholder(seg)
		switch {
		case !isParam && strings.ContainsAny(seg, "{}"):
			return nil, errors.Newf("pattern %q: bad placeholder in segment %q", s, seg)
		case !isParam:
			continue
		case i != 1 || len(segs) != 2:
			return nil, errors.Newf("pattern %q: only the second of two segments may be a placeholder", s)
		case name == "":
			return nil, errors.Newf("pattern %q: empty placeholder name", s)
		case segs[0] == "":
			return nil, errors.Newf("pattern %q: parametric route needs a collection segment", s)
		}

		pat.segment, pat.param = segs[0], name
	}

	return pat, nil
}

func placeholder(seg string) (string, bool) {
	if len(seg) < 2 || seg[0] != '{' || seg[len(seg)-1] != '}' {
		return "", false
	}
	return seg[1 : len(seg)-1], true
}

// build substitutes vals into the pattern's placeholder, in order.
func (p *pattern) build(vals ...string) (string, error) {
	if p.param == "" {
		if len(vals) > 0 {
			return "", errors.Newf("too many values: pattern %q takes none", p.str)
		}
		return p.path, nil
	}

	switch {
	case len(vals) < 1:
		return "", errors.Newf("not enough values: pattern %q needs {%s}", p.str, p.param)
	case len(vals) > 1:
		return "", errors.Newf("too many values: pattern %q takes one", p.str)
	case vals[0] == "":
		return "", errors.Newf("empty value for {%s}", p.param)
	}

	return "/" + p.segment + "/" + url.PathEscape(vals[0]), nil
}
