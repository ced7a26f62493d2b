// Package query parses the FIND statements composed by search.QueryBuilder
// so that search backends can execute them.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goto/finder/core/search"
)

var (
	statementPattern = regexp.MustCompile(`(?s)^\s*FIND\s+'(.*?)'\s+IN\s+([A-Z]+\s+FIELDS)\s+RETURNING\s+(.*?)\s*$`)
	identPattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	fieldPattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	limitPattern     = regexp.MustCompile(`(?i)\s+LIMIT\s+(\d+)$`)
)

// Query is a parsed FIND statement
type Query struct {
	Term    string
	Scope   search.Scope
	Objects []Object
}

// Object is one clause of the RETURNING list
type Object struct {
	Name      string
	Fields    []string
	Condition string
	Limit     int
}

// Names returns the object names in clause order
func (q Query) Names() []string {
	names := make([]string, len(q.Objects))
	for i, o := range q.Objects {
		names[i] = o.Name
	}
	return names
}

// ObjectByName looks up a clause by name ignoring case
func (q Query) ObjectByName(name string) (Object, bool) {
	for _, o := range q.Objects {
		if strings.EqualFold(o.Name, name) {
			return o, true
		}
	}
	return Object{}, false
}

// SyntaxError reports where a statement stopped making sense
type SyntaxError struct {
	Pos int
	Msg string
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("malformed query: %s at position %d", err.Msg, err.Pos)
}

// Parse parses a FIND statement. Object names must be unique ignoring
// case: backends map object types to case-insensitive indexes and tables,
// so "Account" and "account" would read the same records.
func Parse(stmt string) (Query, error) {
	m := statementPattern.FindStringSubmatchIndex(stmt)
	if m == nil {
		return Query{}, &SyntaxError{Pos: 0, Msg: "expected FIND '<term>' IN <scope> RETURNING <objects>"}
	}

	term := stmt[m[2]:m[3]]
	if strings.TrimSpace(term) == "" {
		return Query{}, &SyntaxError{Pos: m[2], Msg: "empty search term"}
	}

	scope, err := search.ParseScope(stmt[m[4]:m[5]])
	if err != nil {
		return Query{}, &SyntaxError{Pos: m[4], Msg: fmt.Sprintf("unknown scope %q", stmt[m[4]:m[5]])}
	}

	objects, err := parseObjects(stmt[m[6]:m[7]], m[6])
	if err != nil {
		return Query{}, err
	}

	return Query{Term: term, Scope: scope, Objects: objects}, nil
}

func parseObjects(s string, offset int) ([]Object, error) {
	var (
		objects []Object
		seen    = map[string]bool{}
		i       = 0
	)
	for {
		i = skipSpace(s, i)
		start := i
		for i < len(s) && s[i] != '(' && s[i] != ',' && s[i] != ' ' {
			i++
		}
		name := s[start:i]
		if !identPattern.MatchString(name) {
			return nil, &SyntaxError{Pos: offset + start, Msg: fmt.Sprintf("invalid object name %q", name)}
		}
		if seen[strings.ToLower(name)] {
			return nil, &SyntaxError{Pos: offset + start, Msg: fmt.Sprintf("duplicate object %q", name)}
		}
		seen[strings.ToLower(name)] = true

		i = skipSpace(s, i)
		if i >= len(s) || s[i] != '(' {
			return nil, &SyntaxError{Pos: offset + i, Msg: fmt.Sprintf("expected '(' after %s", name)}
		}
		end, err := closingParen(s, i)
		if err != nil {
			return nil, &SyntaxError{Pos: offset + i, Msg: err.Error()}
		}

		obj, err := parseClause(name, s[i+1:end], offset+i+1)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)

		i = skipSpace(s, end+1)
		if i >= len(s) {
			return objects, nil
		}
		if s[i] != ',' {
			return nil, &SyntaxError{Pos: offset + i, Msg: "expected ',' between objects"}
		}
		i++
	}
}

func parseClause(name, body string, offset int) (Object, error) {
	obj := Object{Name: name}

	body = strings.TrimSpace(body)
	if m := limitPattern.FindStringSubmatchIndex(body); m != nil {
		limit, err := strconv.Atoi(body[m[2]:m[3]])
		if err != nil || limit <= 0 {
			return Object{}, &SyntaxError{Pos: offset + m[2], Msg: "limit must be a positive integer"}
		}
		obj.Limit = limit
		body = strings.TrimSpace(body[:m[0]])
	}

	fieldList := body
	if idx := topLevelKeyword(body, "WHERE"); idx >= 0 {
		fieldList = strings.TrimSpace(body[:idx])
		obj.Condition = strings.TrimSpace(body[idx+len("WHERE"):])
		if obj.Condition == "" {
			return Object{}, &SyntaxError{Pos: offset + idx, Msg: "empty WHERE condition"}
		}
	}

	for _, f := range strings.Split(fieldList, ",") {
		f = strings.TrimSpace(f)
		if !fieldPattern.MatchString(f) {
			return Object{}, &SyntaxError{Pos: offset, Msg: fmt.Sprintf("invalid field %q in %s", f, name)}
		}
		obj.Fields = append(obj.Fields, f)
	}
	return obj, nil
}

// closingParen returns the index of the paren matching the one at open,
// skipping parens inside quoted literals and quoted identifiers.
func closingParen(s string, open int) (int, error) {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		switch c := s[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("unbalanced parentheses")
}

// topLevelKeyword finds kw as a whole word outside quotes and nested parens
func topLevelKeyword(s, kw string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			continue
		case c == '\'' || c == '"':
			quote = c
			continue
		case c == '(':
			depth++
			continue
		case c == ')':
			depth--
			continue
		}
		if depth != 0 || i+len(kw) > len(s) || !strings.EqualFold(s[i:i+len(kw)], kw) {
			continue
		}
		before := i == 0 || s[i-1] == ' ' || s[i-1] == ','
		after := i+len(kw) == len(s) || s[i+len(kw)] == ' '
		if before && after {
			return i
		}
	}
	return -1
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}
