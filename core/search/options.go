package search

import (
	"strconv"
	"strings"
)

// IDField is the identifier field every object clause returns
const IDField = "Id"

// ObjectOptions holds the search configuration of one registered object type
type ObjectOptions struct {
	// Fields to return, identifier first. Never contains IDField twice.
	Fields []string

	// Condition is a filter clause fragment used verbatim in WHERE.
	// Empty means unconstrained.
	Condition string

	// Limit caps the number of records returned for the object.
	// Zero means unbounded.
	Limit int
}

func newObjectOptions() *ObjectOptions {
	return &ObjectOptions{Fields: []string{IDField}}
}

// setFields rebuilds the field list as IDField followed by fields in
// input order. Blank entries, the identifier (in any casing) and
// case-insensitive repeats are skipped.
func (o *ObjectOptions) setFields(fields []string) {
	seen := map[string]bool{strings.ToLower(IDField): true}
	out := make([]string, 0, len(fields)+1)
	out = append(out, IDField)
	for _, f := range fields {
		f = strings.TrimSpace(f)
		key := strings.ToLower(f)
		if f == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	o.Fields = out
}

// clause renders the object clause, e.g.
// Account (Id, Name WHERE CreatedDate <= TODAY LIMIT 25)
func (o ObjectOptions) clause(name string) string {
	parts := []string{strings.Join(o.Fields, ", ")}
	if cond := strings.TrimSpace(o.Condition); cond != "" {
		parts = append(parts, "WHERE "+cond)
	}
	if o.Limit > 0 {
		parts = append(parts, "LIMIT "+strconv.Itoa(o.Limit))
	}
	return name + " (" + strings.Join(parts, " ") + ")"
}

func (o ObjectOptions) clone() ObjectOptions {
	o.Fields = append([]string(nil), o.Fields...)
	return o
}
