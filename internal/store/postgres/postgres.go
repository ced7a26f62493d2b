package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
)

// Client is a read-only wrapper over sqlx
type Client struct {
	db     *sqlx.DB
	schema string
}

// NewClient initializes database connection
func NewClient(cfg Config) (*Client, error) {
	db, err := sqlx.Connect("pgx", cfg.ConnectionURL().String())
	if err != nil {
		return nil, fmt.Errorf("error creating and connecting DB: %w", err)
	}
	if db == nil {
		return nil, errNilDBClient
	}
	return &Client{db: db, schema: cfg.schema()}, nil
}

// NewClientWithDB wraps an already opened connection pool. An empty
// schema means public.
func NewClientWithDB(db *sql.DB, schema string) *Client {
	if schema == "" {
		schema = "public"
	}
	return &Client{
		db:     sqlx.NewDb(db, "pgx"),
		schema: schema,
	}
}

func (c *Client) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return checkPostgresError(c.db.GetContext(ctx, dest, query, args...))
}

func (c *Client) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return checkPostgresError(c.db.SelectContext(ctx, dest, query, args...))
}

// QueryFn runs f on a single connection taken from the pool
func (c *Client) QueryFn(ctx context.Context, f func(*sqlx.Conn) error) error {
	conn, err := c.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return checkPostgresError(f(conn))
}

// ExecQueries is used for executing list of db query
func (c *Client) ExecQueries(ctx context.Context, queries []string) error {
	for _, query := range queries {
		_, err := c.db.ExecContext(ctx, query)
		if err != nil {
			return checkPostgresError(err)
		}
	}
	return nil
}

// Schema is the schema object tables are read from
func (c *Client) Schema() string {
	return c.schema
}

func (c *Client) Close() error {
	return c.db.Close()
}

func checkPostgresError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UndefinedTable:
			return fmt.Errorf("%w [%s]", errUndefinedTable, pgErr.Message)
		case pgerrcode.UndefinedColumn:
			return fmt.Errorf("%w [%s]", errUndefinedColumn, pgErr.Message)
		case pgerrcode.SyntaxError:
			return fmt.Errorf("%w [%s]", errSyntax, pgErr.Message)
		case pgerrcode.QueryCanceled:
			return fmt.Errorf("%w [%s]", errQueryCanceled, pgErr.Message)
		}
	}
	return err
}
