package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/goto/finder/core/metadata"
	"github.com/goto/finder/pkg/statsd"
	"github.com/goto/salt/log"
)

// QueryBuilder accumulates per-object search options, composes them into a
// single FIND query, runs it through an Executor and keeps the results of
// the last successful run grouped by object type.
//
// A QueryBuilder is one search session. It holds mutable state and must
// not be used from multiple goroutines at once.
type QueryBuilder struct {
	executor  Executor
	describer metadata.Describer
	logger    log.Logger
	statsd    *statsd.Reporter

	scope   Scope
	names   []string
	objects map[string]*ObjectOptions

	results Results
	lastErr string
}

type Option func(*QueryBuilder)

func WithLogger(logger log.Logger) Option {
	return func(b *QueryBuilder) {
		b.logger = logger
	}
}

func WithStatsDReporter(reporter *statsd.Reporter) Option {
	return func(b *QueryBuilder) {
		b.statsd = reporter
	}
}

// WithDescriber makes SetFieldsForObject reject fields the object does
// not have.
func WithDescriber(describer metadata.Describer) Option {
	return func(b *QueryBuilder) {
		b.describer = describer
	}
}

// NewQueryBuilder initializes a query builder running searches on executor.
// A nil executor is enough for composing queries with Query.
func NewQueryBuilder(executor Executor, opts ...Option) *QueryBuilder {
	b := &QueryBuilder{
		executor: executor,
		logger:   log.NewNoop(),
		objects:  make(map[string]*ObjectOptions),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetSearchScope selects the field categories the next search looks at
func (b *QueryBuilder) SetSearchScope(scope Scope) error {
	if !scope.IsValid() {
		return fmt.Errorf("%w: unsupported scope %q", ErrInvalidArgument, scope)
	}
	b.scope = scope
	return nil
}

// Scope returns the currently selected scope, empty when unset
func (b *QueryBuilder) Scope() Scope {
	return b.scope
}

// SetSearchObjects replaces the registered object types. Every object
// starts with the identifier field only, no condition and no limit.
// Options set earlier are discarded, including for names registered again.
// Names are case sensitive here, but the bundled executors reject names
// that differ only in case, so such a Find fails with LastError set.
func (b *QueryBuilder) SetSearchObjects(names ...string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one search object is required", ErrInvalidArgument)
	}

	objects := make(map[string]*ObjectOptions, len(names))
	ordered := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: search object name cannot be empty", ErrInvalidArgument)
		}
		if _, ok := objects[name]; ok {
			continue
		}
		objects[name] = newObjectOptions()
		ordered = append(ordered, name)
	}

	b.objects = objects
	b.names = ordered
	return nil
}

// SearchObjects returns the registered object type names in sorted order
func (b *QueryBuilder) SearchObjects() []string {
	names := make([]string, 0, len(b.objects))
	for name := range b.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options returns a copy of the options of a registered object
func (b *QueryBuilder) Options(name string) (ObjectOptions, error) {
	opts, err := b.object(name)
	if err != nil {
		return ObjectOptions{}, err
	}
	return opts.clone(), nil
}

// SetFieldsForObject sets the fields returned for an object. The
// identifier field is always returned first and exactly once.
func (b *QueryBuilder) SetFieldsForObject(ctx context.Context, name string, fields ...string) error {
	opts, err := b.object(name)
	if err != nil {
		return err
	}

	if b.describer != nil {
		if err := b.validateFields(ctx, name, fields); err != nil {
			return err
		}
	}

	opts.setFields(fields)
	return nil
}

// SetConditionForObject stores a filter clause fragment for an object.
// The condition is used verbatim; no escaping or validation is done.
func (b *QueryBuilder) SetConditionForObject(name, condition string) error {
	opts, err := b.object(name)
	if err != nil {
		return err
	}
	opts.Condition = condition
	return nil
}

// SetLimitForObject caps the records returned for an object
func (b *QueryBuilder) SetLimitForObject(name string, limit int) error {
	opts, err := b.object(name)
	if err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}
	opts.Limit = limit
	return nil
}

// Query composes the FIND query for term without running it.
// The term is wrapped in single quotes as is; embedded quotes are not
// escaped.
func (b *QueryBuilder) Query(term string) (string, error) {
	if !b.scope.IsValid() || len(b.names) == 0 {
		return "", ErrNotConfigured
	}

	clauses := make([]string, 0, len(b.names))
	for _, name := range b.names {
		clauses = append(clauses, b.objects[name].clause(name))
	}

	return fmt.Sprintf("FIND '%s' IN %s RETURNING %s",
		term, b.scope.Token(), strings.Join(clauses, ", ")), nil
}

// Find runs a search for term. It returns ErrNotConfigured when no scope
// or objects are set, or when the builder was created without an
// executor. A failure reported by the executor is not returned as an
// error: Find returns false, keeps the previous results and makes the
// failure message available through LastError.
func (b *QueryBuilder) Find(ctx context.Context, term string) (bool, error) {
	query, err := b.Query(term)
	if err != nil {
		return false, err
	}
	if b.executor == nil {
		return false, ErrNotConfigured
	}

	searchID := uuid.NewString()
	b.logger.Debug("executing search", "search_id", searchID, "query", query)

	start := time.Now()
	groups, execErr := b.executor.Execute(ctx, query)
	b.publish(start, execErr)

	if execErr != nil {
		b.lastErr = execErr.Error()
		b.logger.Warn("search failed", "search_id", searchID, "err", execErr)
		return false, nil
	}

	b.results = b.partition(groups)
	b.lastErr = ""
	b.logger.Info("search completed", "search_id", searchID, "object_types", len(b.results))
	return true, nil
}

// ResultsForObject returns the records found for an object type by the
// last successful Find, nil when there were none.
func (b *QueryBuilder) ResultsForObject(name string) []Record {
	return cloneRecords(b.results[name])
}

// Results returns a snapshot of all results of the last successful Find.
// Changing the snapshot does not affect the builder.
func (b *QueryBuilder) Results() Results {
	return b.results.clone()
}

// LastError returns the failure message of the last Find, empty when the
// last Find succeeded or none has run.
func (b *QueryBuilder) LastError() string {
	return b.lastErr
}

func (b *QueryBuilder) object(name string) (*ObjectOptions, error) {
	opts, ok := b.objects[name]
	if !ok {
		return nil, UnknownObjectError{Name: name}
	}
	return opts, nil
}

func (b *QueryBuilder) validateFields(ctx context.Context, name string, fields []string) error {
	desc, err := b.describer.DescribeObject(ctx, name)
	if err != nil {
		return fmt.Errorf("validate fields of %q: %w", name, err)
	}

	known := make(map[string]bool, len(desc.Fields))
	for _, f := range desc.Fields {
		known[strings.ToLower(f.Name)] = true
	}
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || strings.EqualFold(f, IDField) {
			continue
		}
		if !known[strings.ToLower(f)] {
			return UnknownFieldError{Object: name, Field: f}
		}
	}
	return nil
}

// partition groups records by the type each record carries. Types that
// match a registered name ignoring case are reported under that name.
func (b *QueryBuilder) partition(groups []RecordGroup) Results {
	registered := make(map[string]string, len(b.names))
	for _, name := range b.names {
		registered[strings.ToLower(name)] = name
	}

	results := make(Results)
	for _, group := range groups {
		for _, rec := range group {
			typ := rec.Type
			if name, ok := registered[strings.ToLower(typ)]; ok {
				typ = name
			}
			if typ == "" {
				b.logger.Warn("dropping search record without type", "id", rec.ID)
				continue
			}
			rec.Type = typ
			results[typ] = append(results[typ], rec)
		}
	}
	return results
}

func (b *QueryBuilder) publish(start time.Time, err error) {
	m := b.statsd.Timing("search.find", time.Since(start))
	if err != nil {
		m.Failure(err)
	} else {
		m.Success()
	}
	m.Publish()
}
