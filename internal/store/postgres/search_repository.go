package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/goto/finder/core/search"
	"github.com/goto/finder/internal/query"
	"github.com/goto/finder/pkg/statsd"
	"github.com/goto/salt/log"
	"github.com/jackc/pgx/v4"
	"github.com/jmoiron/sqlx"
)

const recordTypeColumn = "_record_type"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchRepository executes FIND statements with one SELECT per object
// clause. The term is matched with ILIKE against the text columns the
// scope selects.
type SearchRepository struct {
	client    *Client
	describer *DescribeRepository
	logger    log.Logger
	statsd    *statsd.Reporter
}

func NewSearchRepository(c *Client, logger log.Logger, reporter *statsd.Reporter) (*SearchRepository, error) {
	if c == nil {
		return nil, errNilDBClient
	}
	return &SearchRepository{
		client:    c,
		describer: &DescribeRepository{client: c},
		logger:    logger,
		statsd:    reporter,
	}, nil
}

// Execute runs one SELECT per object clause of stmt. Object names that
// differ only in case resolve to the same table and are rejected as a
// malformed query.
func (r *SearchRepository) Execute(ctx context.Context, stmt string) ([]search.RecordGroup, error) {
	q, err := query.Parse(stmt)
	if err != nil {
		return nil, err
	}

	groups := make([]search.RecordGroup, 0, len(q.Objects))
	for _, obj := range q.Objects {
		group, err := r.executeObject(ctx, q, obj)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (r *SearchRepository) executeObject(ctx context.Context, q query.Query, obj query.Object) (group search.RecordGroup, err error) {
	defer func(start time.Time) {
		m := r.statsd.Timing("postgres.select", time.Since(start)).Tag("object", obj.Name)
		if err != nil {
			m.Failure(err)
		} else {
			m.Success()
		}
		m.Publish()
	}(time.Now())

	table, cols, err := r.describer.columns(ctx, obj.Name)
	if err != nil {
		return nil, search.ExecutionError{Op: "Execute", Object: obj.Name, Err: err}
	}

	stmt, args, err := buildSelect(r.client.Schema(), table, cols, q, obj)
	if err != nil {
		return nil, search.ExecutionError{Op: "Execute", Object: obj.Name, Err: err}
	}
	if stmt == "" {
		r.logger.Debug("no searchable columns for scope", "object", obj.Name, "scope", q.Scope)
		return search.RecordGroup{}, nil
	}
	r.logger.Debug("postgres search", "object", obj.Name, "query", stmt)

	err = r.client.QueryFn(ctx, func(conn *sqlx.Conn) error {
		rows, err := conn.QueryxContext(ctx, stmt, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			row := make(map[string]interface{})
			if err := rows.MapScan(row); err != nil {
				return fmt.Errorf("scan %s row: %w", table, err)
			}
			group = append(group, toRecord(q, row))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, search.ExecutionError{Op: "Execute", Object: obj.Name, Err: err}
	}
	if group == nil {
		group = search.RecordGroup{}
	}
	return group, nil
}

// buildSelect returns an empty statement when the scope selects no column
// of the table.
func buildSelect(schema, table string, cols []column, q query.Query, obj query.Object) (string, []interface{}, error) {
	byName := make(map[string]column, len(cols))
	for _, c := range cols {
		byName[strings.ToLower(c.Name)] = c
	}

	selected := []string{"tableoid::regclass::text AS " + recordTypeColumn}
	for _, f := range obj.Fields {
		c, ok := byName[strings.ToLower(f)]
		if !ok {
			return "", nil, search.UnknownFieldError{Object: obj.Name, Field: f}
		}
		selected = append(selected, pgx.Identifier{c.Name}.Sanitize()+" AS "+pgx.Identifier{f}.Sanitize())
	}

	searched := scopeColumns(q.Scope, cols)
	if len(searched) == 0 {
		return "", nil, nil
	}

	pattern := "%" + likeEscaper.Replace(q.Term) + "%"
	match := sq.Or{}
	for _, c := range searched {
		match = append(match, sq.ILike{pgx.Identifier{c.Name}.Sanitize(): pattern})
	}

	builder := sq.Select(selected...).
		From(pgx.Identifier{schema, table}.Sanitize()).
		Where(match)
	if obj.Condition != "" {
		// conditions are raw sql; literal question marks are not placeholders
		builder = builder.Where(sq.Expr("(" + strings.ReplaceAll(obj.Condition, "?", "??") + ")"))
	}
	if obj.Limit > 0 {
		builder = builder.Limit(uint64(obj.Limit))
	}

	return builder.PlaceholderFormat(sq.Dollar).ToSql()
}

// scopeColumns picks the text columns a scope searches
func scopeColumns(scope search.Scope, cols []column) []column {
	var keywords []string
	switch scope {
	case search.ScopeNameFields:
		keywords = []string{"name"}
	case search.ScopeEmailFields:
		keywords = []string{"email"}
	case search.ScopePhoneFields:
		keywords = []string{"phone"}
	case search.ScopeSidebarFields:
		keywords = []string{"name", "email", "phone"}
	}

	var searched []column
	for _, c := range cols {
		if !c.isText() {
			continue
		}
		if len(keywords) == 0 || containsAny(strings.ToLower(c.Name), keywords) {
			searched = append(searched, c)
		}
	}
	return searched
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// toRecord converts a scanned row. The record type is the table the row
// was read from, reported under the clause name when they match.
func toRecord(q query.Query, row map[string]interface{}) search.Record {
	typ := tableFromRegclass(fmt.Sprint(row[recordTypeColumn]))
	if o, ok := q.ObjectByName(typ); ok {
		typ = o.Name
	}
	delete(row, recordTypeColumn)

	rec := search.Record{Type: typ, Fields: make(map[string]interface{}, len(row))}
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		rec.Fields[k] = v
		if strings.EqualFold(k, search.IDField) && v != nil {
			rec.ID = fmt.Sprint(v)
		}
	}
	return rec
}

// tableFromRegclass strips the schema and quoting from a regclass name
func tableFromRegclass(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return strings.Trim(s, `"`)
}
