// Package access implements the declarative access decision engine: an
// ordered rule table evaluated top to bottom, first matching path pattern
// wins. The decision is pure given (rules, identity, path).
package access

import (
	"fmt"
	"strings"

	"github.com/identra/identity-service/internal/core/domain"
)

// Requirement is what a matched rule demands from the caller.
type Requirement struct {
	kind requirementKind
	role domain.Role
}

type requirementKind int

const (
	reqPublic requirementKind = iota
	reqAuthenticated
	reqRole
)

// Public always allows.
func Public() Requirement { return Requirement{kind: reqPublic} }

// Authenticated requires any resolved identity.
func Authenticated() Requirement { return Requirement{kind: reqAuthenticated} }

// RequireRole requires a resolved identity holding exactly that role.
func RequireRole(r domain.Role) Requirement { return Requirement{kind: reqRole, role: r} }

func (r Requirement) String() string {
	switch r.kind {
	case reqPublic:
		return "PUBLIC"
	case reqAuthenticated:
		return "AUTHENTICATED"
	default:
		return fmt.Sprintf("ROLE(%s)", r.role)
	}
}

// Rule pairs a glob-style path pattern with a requirement.
type Rule struct {
	Pattern string
	Require Requirement
}

// Decision is the outcome of evaluating a path against the rule table.
type Decision struct {
	Allowed bool
	// Reason is set on denial: ErrNotAuthenticated when no identity was
	// resolved, ErrForbidden when the identity lacks the required role.
	Reason error
	// Rule is the pattern that matched, or empty on default fallthrough.
	Rule string
}

var allow = Decision{Allowed: true}

func deny(reason error, rule string) Decision {
	return Decision{Reason: reason, Rule: rule}
}

// Engine evaluates the ordered rule table. Rules are loaded at startup and
// read-only thereafter.
type Engine struct {
	rules      []Rule
	defaultReq Requirement
}

// NewEngine builds an engine over rules. Paths matching no rule fall through
// to defaultReq.
func NewEngine(rules []Rule, defaultReq Requirement) *Engine {
	return &Engine{rules: rules, defaultReq: defaultReq}
}

// Decide returns the verdict for a request path and the caller's resolved
// identity (nil for anonymous).
func (e *Engine) Decide(path string, identity *domain.Identity) Decision {
	for _, rule := range e.rules {
		if matchPattern(rule.Pattern, path) {
			return evaluate(rule.Require, identity, rule.Pattern)
		}
	}
	return evaluate(e.defaultReq, identity, "")
}

func evaluate(req Requirement, identity *domain.Identity, rule string) Decision {
	switch req.kind {
	case reqPublic:
		return allow
	case reqAuthenticated:
		if identity == nil {
			return deny(domain.ErrNotAuthenticated, rule)
		}
		return allow
	default:
		if identity == nil {
			return deny(domain.ErrNotAuthenticated, rule)
		}
		if identity.Role != req.role {
			return deny(domain.ErrForbidden, rule)
		}
		return allow
	}
}

// matchPattern matches path against a glob pattern where "*" matches any
// sequence within one path segment and "**" matches any sequence across
// segments. Matching is on whole segments, ant-style: "/admin/*" matches
// "/admin/users" but not "/admin/users/42"; "/admin/**" matches both.
func matchPattern(pattern, path string) bool {
	return matchSegments(splitPath(pattern), splitPath(path))
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}
	if pattern[0] == "**" {
		// "**" absorbs zero or more segments.
		if matchSegments(pattern[1:], segments) {
			return true
		}
		return len(segments) > 0 && matchSegments(pattern, segments[1:])
	}
	if len(segments) == 0 {
		return false
	}
	if !matchSegment(pattern[0], segments[0]) {
		return false
	}
	return matchSegments(pattern[1:], segments[1:])
}

func matchSegment(pattern, segment string) bool {
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return pattern == segment
	}
	// General case: "*" matches any run of characters within the segment.
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(segment, parts[0]) {
		return false
	}
	segment = segment[len(parts[0]):]
	for _, part := range parts[1 : len(parts)-1] {
		idx := strings.Index(segment, part)
		if idx < 0 {
			return false
		}
		segment = segment[idx+len(part):]
	}
	return strings.HasSuffix(segment, parts[len(parts)-1])
}
