package postgres

import "errors"

var (
	errNilDBClient     = errors.New("db client is nil")
	errUndefinedTable  = errors.New("undefined table")
	errUndefinedColumn = errors.New("undefined column")
	errSyntax          = errors.New("syntax error")
	errQueryCanceled   = errors.New("query canceled")
)
