// Package querybuilder renders the two SQL shapes the postgres repositories
// need: filtered selects and multi-row inserts with an upsert suffix. It
// emits postgres positional placeholders and keeps arguments alongside the
// statement.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Cond renders one WHERE fragment against a shared argument list.
type Cond func(args *argList) string

type argList struct {
	values []any
}

func (a *argList) bind(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

func Eq(column string, value any) Cond {
	return func(args *argList) string {
		return column + " = " + args.bind(value)
	}
}

// In renders an IN list. An empty value set matches nothing rather than
// producing invalid SQL.
func In(column string, values []any) Cond {
	return func(args *argList) string {
		if len(values) == 0 {
			return "1=0"
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = args.bind(v)
		}
		return column + " IN (" + strings.Join(placeholders, ", ") + ")"
	}
}

type SelectQuery struct {
	columns []string
	table   string
	conds   []Cond
}

func Select(columns ...string) *SelectQuery {
	return &SelectQuery{columns: append([]string(nil), columns...)}
}

func (q *SelectQuery) From(table string) *SelectQuery {
	q.table = table
	return q
}

// Where appends conditions; all conditions are joined with AND.
func (q *SelectQuery) Where(conds ...Cond) *SelectQuery {
	q.conds = append(q.conds, conds...)
	return q
}

func (q *SelectQuery) ToSQL() (string, []any, error) {
	if len(q.columns) == 0 {
		return "", nil, fmt.Errorf("select needs columns")
	}
	if strings.TrimSpace(q.table) == "" {
		return "", nil, fmt.Errorf("select needs a table")
	}

	var args argList
	sql := "SELECT " + strings.Join(q.columns, ", ") + " FROM " + q.table
	if len(q.conds) > 0 {
		fragments := make([]string, len(q.conds))
		for i, cond := range q.conds {
			fragments[i] = cond(&args)
		}
		sql += " WHERE " + strings.Join(fragments, " AND ")
	}

	return sql, args.values, nil
}

type InsertQuery struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertQuery {
	return &InsertQuery{table: table}
}

func (q *InsertQuery) Columns(columns ...string) *InsertQuery {
	q.columns = append([]string(nil), columns...)
	return q
}

func (q *InsertQuery) Values(values ...any) *InsertQuery {
	q.rows = append(q.rows, append([]any(nil), values...))
	return q
}

// Suffix appends raw SQL after the VALUES list, used for ON CONFLICT
// upsert clauses. The suffix carries no bound arguments.
func (q *InsertQuery) Suffix(sql string) *InsertQuery {
	q.suffix = strings.TrimSpace(sql)
	return q
}

func (q *InsertQuery) ToSQL() (string, []any, error) {
	if strings.TrimSpace(q.table) == "" {
		return "", nil, fmt.Errorf("insert needs a table")
	}
	if len(q.columns) == 0 {
		return "", nil, fmt.Errorf("insert needs columns")
	}
	if len(q.rows) == 0 {
		return "", nil, fmt.Errorf("insert needs values")
	}

	var args argList
	rows := make([]string, len(q.rows))
	for rowIdx, row := range q.rows {
		if len(row) != len(q.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values for %d columns", rowIdx, len(row), len(q.columns))
		}
		placeholders := make([]string, len(row))
		for colIdx, value := range row {
			placeholders[colIdx] = args.bind(value)
		}
		rows[rowIdx] = "(" + strings.Join(placeholders, ", ") + ")"
	}

	sql := "INSERT INTO " + q.table +
		" (" + strings.Join(q.columns, ", ") + ") VALUES " +
		strings.Join(rows, ", ")
	if q.suffix != "" {
		sql += " " + q.suffix
	}

	return sql, args.values, nil
}
