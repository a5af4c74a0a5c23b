// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

package routes

import (
	"errors"
	"fmt"
	"strings"
)

// Table construction errors.
var (
	// ErrDuplicateRule indicates two rules share the same key and kind.
	ErrDuplicateRule = errors.New("duplicate route rule")

	// ErrAmbiguousRule indicates two rules would match the same paths: the
	// same key declared under different match kinds, or two parameterized
	// keys with identical shape. Either would make the winning rule depend
	// on lookup order.
	ErrAmbiguousRule = errors.New("ambiguous route rule overlap")

	// ErrInvalidRule indicates a malformed rule key.
	ErrInvalidRule = errors.New("invalid route rule")
)

// Table is the compiled access-control table. It is immutable after
// construction and safe for concurrent use.
type Table struct {
	exact    map[string]*Rule
	params   []*paramRule
	prefixes map[string]*Rule
}

// paramRule is a compiled parameterized pattern. Segments equal to "" in
// literals are identifier wildcards.
type paramRule struct {
	rule     *Rule
	segments []string // literal segment, or "" for a 24-hex id wildcard
}

// NewTable compiles rules into a Table, rejecting overlaps that would make
// matching order-dependent. All validation happens here, at startup, so a
// misconfigured table fails the process instead of silently misrouting.
func NewTable(rules []Rule) (*Table, error) {
	t := &Table{
		exact:    make(map[string]*Rule),
		prefixes: make(map[string]*Rule),
	}
	type seenRule struct {
		kind MatchKind
		key  string
	}
	seen := make(map[string]seenRule)

	for i := range rules {
		r := &rules[i]
		if r.Key == "" || !strings.HasPrefix(r.Key, "/") {
			return nil, fmt.Errorf("%w: key %q must start with /", ErrInvalidRule, r.Key)
		}
		if strings.HasSuffix(r.Key, "/") {
			return nil, fmt.Errorf("%w: key %q must not end with /", ErrInvalidRule, r.Key)
		}

		// Dedupe on the canonical key so parameterized patterns that differ
		// only in placeholder name still collide.
		canon := canonicalKey(r)
		if prior, ok := seen[canon]; ok {
			if prior.kind != r.Kind {
				return nil, fmt.Errorf("%w: %q declared as both %s and %s", ErrAmbiguousRule, prior.key, prior.kind, r.Kind)
			}
			if prior.key == r.Key {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, r.Key)
			}
			return nil, fmt.Errorf("%w: %q and %q match the same paths", ErrAmbiguousRule, prior.key, r.Key)
		}
		seen[canon] = seenRule{kind: r.Kind, key: r.Key}

		switch r.Kind {
		case MatchExact:
			t.exact[r.Key] = r
		case MatchParam:
			pr, err := compileParam(r)
			if err != nil {
				return nil, err
			}
			t.params = append(t.params, pr)
		case MatchPrefix:
			t.prefixes[r.Key] = r
		default:
			return nil, fmt.Errorf("%w: key %q has unknown match kind", ErrInvalidRule, r.Key)
		}
	}

	return t, nil
}

// MustTable is NewTable that panics on error, for the compiled-in table.
func MustTable(rules []Rule) *Table {
	t, err := NewTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// canonicalKey reduces a parameterized key to its matching shape: every
// "{...}" segment becomes the same sentinel, so placeholder names cannot
// hide an overlap. Exact and prefix keys are already canonical.
func canonicalKey(r *Rule) string {
	if r.Kind != MatchParam {
		return r.Key
	}
	segs := strings.Split(r.Key, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}

func compileParam(r *Rule) (*paramRule, error) {
	raw := strings.Split(strings.TrimPrefix(r.Key, "/"), "/")
	segments := make([]string, len(raw))
	wildcards := 0
	for i, s := range raw {
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			segments[i] = ""
			wildcards++
			continue
		}
		if s == "" {
			return nil, fmt.Errorf("%w: key %q has an empty segment", ErrInvalidRule, r.Key)
		}
		segments[i] = s
	}
	if wildcards == 0 {
		return nil, fmt.Errorf("%w: param key %q has no {id} segment", ErrInvalidRule, r.Key)
	}
	return &paramRule{rule: r, segments: segments}, nil
}

// Classify returns the most specific rule matching path, or (nil, false)
// when no rule applies. The path must already have its query string
// stripped.
//
// Match precedence: exact, then parameterized 24-hex pattern, then longest
// segment-aligned prefix.
func (t *Table) Classify(path string) (*Rule, bool) {
	path = normalize(path)

	if r, ok := t.exact[path]; ok {
		return r, true
	}

	for _, pr := range t.params {
		if pr.matches(path) {
			return pr.rule, true
		}
	}

	// Longest-prefix match: walk the path's ancestors from most to least
	// specific. Segment alignment is implicit in how ancestors are derived.
	for p := path; p != ""; p = parent(p) {
		if r, ok := t.prefixes[p]; ok {
			return r, true
		}
	}

	return nil, false
}

func (pr *paramRule) matches(path string) bool {
	got := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(got) != len(pr.segments) {
		return false
	}
	for i, want := range pr.segments {
		if want == "" {
			if !IsHexID(got[i]) {
				return false
			}
			continue
		}
		if got[i] != want {
			return false
		}
	}
	return true
}

// IsHexID reports whether s is a 24-character hexadecimal identifier, the
// shape of the portal's object ids.
func IsHexID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// normalize strips a trailing slash so "/api/payments/" and "/api/payments"
// classify identically. The root path is left alone.
func normalize(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return strings.TrimRight(path, "/")
	}
	return path
}

// parent returns the segment-aligned ancestor of path, or "" at the root.
func parent(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}
