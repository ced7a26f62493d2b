package search

//go:generate mockery --name=Executor -r --case underscore --with-expecter --structname Executor --filename executor.go --output=./mocks
import (
	"context"
)

// Executor runs a composed FIND query against a search backend.
// A non-nil error is the backend's failure outcome; its message is
// reported verbatim by QueryBuilder.LastError.
type Executor interface {
	Execute(ctx context.Context, query string) ([]RecordGroup, error)
}

// Record is a single row returned by a search backend. Type carries the
// object type the backend read the record from.
type Record struct {
	Type   string                 `json:"type"`
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// RecordGroup is a homogeneous sequence of records of one object type
type RecordGroup []Record

// Results maps an object type name to the records found for it
type Results map[string][]Record

func (r Record) clone() Record {
	if r.Fields == nil {
		return r
	}
	fields := make(map[string]interface{}, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	r.Fields = fields
	return r
}

func cloneRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec.clone()
	}
	return out
}

func (r Results) clone() Results {
	out := make(Results, len(r))
	for typ, records := range r {
		out[typ] = cloneRecords(records)
	}
	return out
}
