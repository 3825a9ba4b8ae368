package router

import (
	"fmt"
	"strings"
)

// pattern is a parsed path template such as /comercial/entidades/{id}.
type pattern struct {
	raw      string
	segments []segment
	params   int
}

type segment struct {
	literal string
	param   string // non-empty for {name} segments
}

func isPattern(path string) bool {
	return strings.ContainsAny(path, "{}")
}

// parsePattern splits path into segments. Every {name} must fill a whole
// segment and names must be unique within the path.
func parsePattern(path string) (*pattern, error) {
	p := &pattern{raw: path}
	seen := make(map[string]bool)

	for _, part := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if !strings.ContainsAny(part, "{}") {
			p.segments = append(p.segments, segment{literal: part})
			continue
		}
		if len(part) < 3 || part[0] != '{' || part[len(part)-1] != '}' || strings.ContainsAny(part[1:len(part)-1], "{}") {
			return nil, fmt.Errorf("%w: segment %q must be a whole {name}", ErrInvalidRoute, part)
		}
		name := part[1 : len(part)-1]
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate parameter %q", ErrInvalidRoute, name)
		}
		seen[name] = true
		p.segments = append(p.segments, segment{param: name})
		p.params++
	}
	return p, nil
}

// sameShape reports whether p and q match exactly the same paths, which is
// the case when they differ at most in parameter names.
func (p *pattern) sameShape(q *pattern) bool {
	if len(p.segments) != len(q.segments) {
		return false
	}
	for i, seg := range p.segments {
		other := q.segments[i]
		if (seg.param == "") != (other.param == "") {
			return false
		}
		if seg.param == "" && seg.literal != other.literal {
			return false
		}
	}
	return true
}

// match reports whether path fits the pattern, returning the parameter
// values in segment order. A parameter matches exactly one non-empty segment.
func (p *pattern) match(path string) ([]string, bool) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) != len(p.segments) {
		return nil, false
	}

	values := make([]string, 0, p.params)
	for i, seg := range p.segments {
		if seg.param == "" {
			if parts[i] != seg.literal {
				return nil, false
			}
			continue
		}
		if parts[i] == "" {
			return nil, false
		}
		values = append(values, parts[i])
	}
	return values, true
}
