// Package query lowers a core.Filter to parameterized SQL and evaluates the
// same filter in memory.
//
// Every caller-supplied value is passed as a bound argument. SQL text is
// assembled only from the constant column expressions of a Dialect.
package query

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/JonMunkholm/contactdesk/internal/core"
)

// Dialect describes how one database spells the submissions queries.
type Dialect struct {
	Name        string
	Table       string
	Placeholder sq.PlaceholderFormat

	columns   []string
	timestamp string

	// likeExpr returns a case-insensitive LIKE predicate for col with one
	// placeholder.
	likeExpr func(col string) string

	// escapeLike escapes wildcard characters in a user-supplied pattern.
	escapeLike func(s string) string

	platformExpr string

	prefixInsert string
	suffixInsert string
}

// Postgres is the PostgreSQL dialect.
var Postgres = Dialect{
	Name:        "postgres",
	Table:       "contact_submissions",
	Placeholder: sq.Dollar,
	columns:     []string{"id", "name", "email", "message", "platform", `"timestamp"`, "created_at"},
	timestamp:   `"timestamp"`,
	likeExpr: func(col string) string {
		return col + ` ILIKE ? ESCAPE '\'`
	},
	escapeLike:   likeEscaper.Replace,
	platformExpr: "platform = ?",
	suffixInsert: `RETURNING id, name, email, message, platform, "timestamp", created_at`,
}

// SQLServer is the Microsoft SQL Server dialect. Its default collation is
// case-insensitive, so platform comparison forces a case-sensitive collation
// to keep exact-match semantics identical to Postgres.
var SQLServer = Dialect{
	Name:        "sqlserver",
	Table:       "ContactSubmissions",
	Placeholder: sq.AtP,
	columns:     []string{"id", "name", "email", "message", "platform", "[timestamp]", "created_at"},
	timestamp:   "[timestamp]",
	likeExpr: func(col string) string {
		return "LOWER(" + col + `) LIKE LOWER(?) ESCAPE '\'`
	},
	escapeLike:   sqlServerLikeEscaper.Replace,
	platformExpr: "platform = ? COLLATE Latin1_General_CS_AS",
	prefixInsert: "SET NOCOUNT ON;",
	suffixInsert: "; SELECT id, name, email, message, platform, [timestamp], created_at " +
		"FROM ContactSubmissions WHERE id = SCOPE_IDENTITY()",
}

var (
	likeEscaper          = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	sqlServerLikeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `[`, `\[`)
)

// Builder produces statements for one dialect.
type Builder struct {
	d Dialect
}

// NewBuilder returns a Builder for d.
func NewBuilder(d Dialect) Builder {
	return Builder{d: d}
}

// Dialect returns the builder's dialect.
func (b Builder) Dialect() Dialect {
	return b.d
}

func (b Builder) selectAll() sq.SelectBuilder {
	return sq.Select(b.d.columns...).
		From(b.d.Table).
		PlaceholderFormat(b.d.Placeholder)
}

func (b Builder) ordered(qb sq.SelectBuilder) sq.SelectBuilder {
	return qb.OrderBy(b.d.timestamp+" DESC", "id DESC")
}

// Select returns the filtered query, most recent first. An empty filter
// selects every row.
func (b Builder) Select(f core.Filter) (string, []any, error) {
	qb := b.selectAll()

	if f.Name != "" {
		qb = qb.Where(b.d.likeExpr("name"), b.contains(f.Name))
	}
	if f.Email != "" {
		qb = qb.Where(b.d.likeExpr("email"), b.contains(f.Email))
	}
	if f.Platform != "" {
		qb = qb.Where(b.d.platformExpr, f.Platform)
	}
	if f.StartDate != nil {
		qb = qb.Where(b.d.timestamp+" >= ?", f.StartDate.UTC())
	}
	if f.EndDate != nil {
		qb = qb.Where(b.d.timestamp+" <= ?", f.EndDate.UTC())
	}

	sql, args, err := b.ordered(qb).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return sql, args, nil
}

// SelectByID returns the single-row lookup.
func (b Builder) SelectByID(id int64) (string, []any, error) {
	sql, args, err := b.selectAll().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select by id: %w", err)
	}
	return sql, args, nil
}

// Insert returns an insert that yields the stored row. Timestamps are left to
// the column defaults so the database clock is the single source of time.
func (b Builder) Insert(in core.NewSubmission) (string, []any, error) {
	qb := sq.Insert(b.d.Table).
		Columns("name", "email", "message", "platform").
		Values(in.Name, in.Email, in.Message, in.Platform).
		PlaceholderFormat(b.d.Placeholder)
	if b.d.prefixInsert != "" {
		qb = qb.Prefix(b.d.prefixInsert)
	}
	if b.d.suffixInsert != "" {
		qb = qb.Suffix(b.d.suffixInsert)
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build insert: %w", err)
	}
	return sql, args, nil
}

// DeleteByID returns the single-row delete.
func (b Builder) DeleteByID(id int64) (string, []any, error) {
	sql, args, err := sq.Delete(b.d.Table).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(b.d.Placeholder).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build delete: %w", err)
	}
	return sql, args, nil
}

// DeleteAll returns the statement that clears the table.
func (b Builder) DeleteAll() (string, []any, error) {
	sql, args, err := sq.Delete(b.d.Table).PlaceholderFormat(b.d.Placeholder).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build delete all: %w", err)
	}
	return sql, args, nil
}

// PlatformStats returns one row per platform with its total, the number of
// rows at or after since, and the newest timestamp. A single statement keeps
// the totals consistent with the breakdown.
func (b Builder) PlatformStats(since time.Time) (string, []any, error) {
	ts := b.d.timestamp
	sql, args, err := sq.Select("platform", "COUNT(*) AS total").
		Column(sq.Expr("SUM(CASE WHEN "+ts+" >= ? THEN 1 ELSE 0 END) AS recent", since.UTC())).
		Column("MAX(" + ts + ") AS last_at").
		From(b.d.Table).
		GroupBy("platform").
		PlaceholderFormat(b.d.Placeholder).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build stats: %w", err)
	}
	return sql, args, nil
}

func (b Builder) contains(s string) string {
	return "%" + b.d.escapeLike(s) + "%"
}
