package search

import (
	"fmt"
	"strings"
)

const (
	ScopeAllFields     Scope = "ALL_FIELDS"
	ScopeNameFields    Scope = "NAME_FIELDS"
	ScopeEmailFields   Scope = "EMAIL_FIELDS"
	ScopePhoneFields   Scope = "PHONE_FIELDS"
	ScopeSidebarFields Scope = "SIDEBAR_FIELDS"
)

// AllScopes holds every supported search scope
var AllScopes = []Scope{
	ScopeAllFields,
	ScopeNameFields,
	ScopeEmailFields,
	ScopePhoneFields,
	ScopeSidebarFields,
}

// Scope selects which field categories a search looks at
type Scope string

// String cast Scope to string
func (s Scope) String() string {
	return string(s)
}

// Token returns the query language form of the scope, e.g. "NAME FIELDS".
func (s Scope) Token() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// IsValid will validate whether the scope is one of the supported values
func (s Scope) IsValid() bool {
	switch s {
	case ScopeAllFields, ScopeNameFields, ScopeEmailFields,
		ScopePhoneFields, ScopeSidebarFields:
		return true
	}
	return false
}

// ParseScope accepts either the enum form (NAME_FIELDS) or the token
// form (NAME FIELDS), in any letter case.
func ParseScope(s string) (Scope, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(s), "_"))
	scope := Scope(normalized)
	if !scope.IsValid() {
		return "", fmt.Errorf("%w: unsupported scope %q", ErrInvalidArgument, s)
	}
	return scope, nil
}
