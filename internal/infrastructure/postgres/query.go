package postgres

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Op operador de un predicado.
type Op int

const (
	OpEq Op = iota
	OpILike
	OpGte
	OpLte
)

// Predicate condición sobre una columna. Los predicados de una consulta se combinan con AND.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// Eq columna = valor.
func Eq(column string, value any) Predicate { return Predicate{Column: column, Op: OpEq, Value: value} }

// Contains columna ILIKE '%valor%'; los comodines del valor se escapan.
func Contains(column, value string) Predicate {
	return Predicate{Column: column, Op: OpILike, Value: "%" + escapeLike(value) + "%"}
}

// Gte columna >= valor.
func Gte(column string, value any) Predicate { return Predicate{Column: column, Op: OpGte, Value: value} }

// Lte columna <= valor.
func Lte(column string, value any) Predicate { return Predicate{Column: column, Op: OpLte, Value: value} }

func (p Predicate) sqlizer() (sq.Sqlizer, error) {
	if p.Column == "" {
		return nil, fmt.Errorf("predicado sin columna")
	}
	switch p.Op {
	case OpEq:
		return sq.Eq{p.Column: p.Value}, nil
	case OpILike:
		return sq.ILike{p.Column: p.Value}, nil
	case OpGte:
		return sq.GtOrEq{p.Column: p.Value}, nil
	case OpLte:
		return sq.LtOrEq{p.Column: p.Value}, nil
	}
	return nil, fmt.Errorf("operador desconocido %d", p.Op)
}

// SelectQuery describe un SELECT parametrizado. Los valores nunca se interpolan en el SQL.
type SelectQuery struct {
	Table      string
	Columns    []string
	Predicates []Predicate
	GroupBy    []string
	OrderBy    []string
	ForUpdate  bool
}

// Build genera el SQL con placeholders $n y sus argumentos en orden.
func (q SelectQuery) Build() (string, []any, error) {
	if q.Table == "" || len(q.Columns) == 0 {
		return "", nil, fmt.Errorf("consulta incompleta: tabla y columnas son obligatorias")
	}
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(q.Columns...).
		From(q.Table)
	for _, p := range q.Predicates {
		s, err := p.sqlizer()
		if err != nil {
			return "", nil, err
		}
		b = b.Where(s)
	}
	if len(q.GroupBy) > 0 {
		b = b.GroupBy(q.GroupBy...)
	}
	if len(q.OrderBy) > 0 {
		b = b.OrderBy(q.OrderBy...)
	}
	if q.ForUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	return b.ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
