package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/goto/finder/core/metadata"
)

// column is a row of information_schema.columns
type column struct {
	Name       string `db:"column_name"`
	DataType   string `db:"data_type"`
	IsNullable string `db:"is_nullable"`
}

func (c column) isText() bool {
	switch c.DataType {
	case "text", "character varying", "character", "citext":
		return true
	}
	return false
}

// DescribeRepository reads object metadata from the information schema.
// Each object type is a table of the configured schema.
type DescribeRepository struct {
	client *Client
}

func NewDescribeRepository(c *Client) (*DescribeRepository, error) {
	if c == nil {
		return nil, errNilDBClient
	}
	return &DescribeRepository{client: c}, nil
}

func (r *DescribeRepository) DescribeObject(ctx context.Context, name string) (metadata.ObjectDescription, error) {
	table, cols, err := r.columns(ctx, name)
	if err != nil {
		return metadata.ObjectDescription{}, err
	}

	desc := metadata.ObjectDescription{Name: table}
	for _, c := range cols {
		desc.Fields = append(desc.Fields, metadata.Field{
			Name:     c.Name,
			Type:     c.DataType,
			Nillable: c.IsNullable == "YES",
		})
	}
	return desc, nil
}

func (r *DescribeRepository) NamespaceInstalled(ctx context.Context, namespace string) (bool, error) {
	query, args, err := sq.Select("count(1) > 0").
		From("information_schema.schemata").
		Where(sq.Eq{"schema_name": namespace}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build namespace query: %w", err)
	}

	var installed bool
	if err := r.client.GetContext(ctx, &installed, query, args...); err != nil {
		return false, fmt.Errorf("check namespace %q: %w", namespace, err)
	}
	return installed, nil
}

func (r *DescribeRepository) Organization(ctx context.Context) (metadata.Organization, error) {
	const query = `SELECT d.oid::text AS id, d.datname AS name, current_user AS user_name
FROM pg_database d WHERE d.datname = current_database()`

	var org struct {
		ID       string `db:"id"`
		Name     string `db:"name"`
		UserName string `db:"user_name"`
	}
	if err := r.client.GetContext(ctx, &org, query); err != nil {
		return metadata.Organization{}, fmt.Errorf("get organization: %w", err)
	}
	return metadata.Organization{
		ID:       org.ID,
		Name:     org.Name,
		UserName: org.UserName,
	}, nil
}

// columns returns the table an object name resolves to and its columns in
// ordinal order. Names match tables ignoring case.
func (r *DescribeRepository) columns(ctx context.Context, name string) (string, []column, error) {
	query, args, err := sq.Select("table_name", "column_name", "data_type", "is_nullable").
		From("information_schema.columns").
		Where(sq.Eq{"table_schema": r.client.Schema()}).
		Where(sq.Eq{"lower(table_name)": strings.ToLower(name)}).
		OrderBy("table_name", "ordinal_position").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build describe query: %w", err)
	}

	var rows []struct {
		Table string `db:"table_name"`
		column
	}
	if err := r.client.SelectContext(ctx, &rows, query, args...); err != nil {
		return "", nil, fmt.Errorf("describe %q: %w", name, err)
	}
	if len(rows) == 0 {
		return "", nil, metadata.NotFoundError{Object: name}
	}

	// prefer the exact spelling when tables differ only in case
	table := rows[0].Table
	for _, row := range rows {
		if row.Table == name {
			table = name
			break
		}
	}

	cols := make([]column, 0, len(rows))
	for _, row := range rows {
		if row.Table == table {
			cols = append(cols, row.column)
		}
	}
	return table, cols, nil
}
