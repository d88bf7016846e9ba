package query

import (
	"fmt"
	"strconv"
	"strings"
)

// EmptySQL is returned by Compile for a model with no tables. It is not an
// executable statement; the session refuses to run it and a UI shows it as
// the reason nothing will happen.
const EmptySQL = "-- no tables selected"

// Compile deterministically renders the model as SQL text. It is a pure
// function: compiling the same model twice yields byte-identical output, and
// it cannot fail for any model built through the mutators (structural
// validity is enforced at mutation time).
//
// Clause order: SELECT, FROM, JOINs, WHERE, GROUP BY, ORDER BY, LIMIT,
// joined by newlines.
func Compile(m *Model) string {
	if m.IsEmpty() {
		return EmptySQL
	}

	var b strings.Builder

	b.WriteString("SELECT ")
	b.WriteString(selectList(m))

	b.WriteString("\nFROM ")
	b.WriteString(m.tables[0])

	for _, j := range m.joins {
		fmt.Fprintf(&b, "\n%s JOIN %s ON %s.%s = %s.%s",
			j.Kind, j.RightTable, j.LeftTable, j.LeftColumn, j.RightTable, j.RightColumn)
	}

	if len(m.filters) > 0 {
		b.WriteString("\nWHERE ")
		for i, f := range m.filters {
			if i > 0 {
				b.WriteString(" ")
				b.WriteString(string(f.Connective))
				b.WriteString(" ")
			}
			b.WriteString(condition(f))
		}
	}

	if len(m.groups) > 0 {
		b.WriteString("\nGROUP BY ")
		for i, g := range m.groups {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(g.Table + "." + g.Column)
		}
	}

	if len(m.sorts) > 0 {
		b.WriteString("\nORDER BY ")
		for i, s := range m.sorts {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s.%s %s", s.Table, s.Column, s.Direction)
		}
	}

	if m.limit != nil {
		fmt.Fprintf(&b, "\nLIMIT %d", *m.limit)
	}

	return b.String()
}

// selectList renders the selected columns followed by the aggregates. With
// neither present the list falls back to *; aggregates alone replace the
// fallback rather than extend it.
func selectList(m *Model) string {
	items := make([]string, 0, len(m.selected)+len(m.aggregates))
	for _, c := range m.selected {
		item := c.Table + "." + c.Column
		if c.Alias != "" {
			item += " AS " + c.Alias
		}
		items = append(items, item)
	}
	for _, a := range m.aggregates {
		item := fmt.Sprintf("%s(%s.%s)", a.Fn, a.Table, a.Column)
		if a.Alias != "" {
			item += " AS " + a.Alias
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return "*"
	}
	return strings.Join(items, ", ")
}

// condition renders a single WHERE condition.
func condition(f Filter) string {
	col := f.Table + "." + f.Column
	switch f.Op {
	case OpEquals:
		return col + " = " + scalar(f.Value)
	case OpNotEquals:
		return col + " != " + scalar(f.Value)
	case OpGreaterThan:
		return col + " > " + scalar(f.Value)
	case OpLessThan:
		return col + " < " + scalar(f.Value)
	case OpLike:
		// Case-insensitive substring match. The user value is matched
		// literally: LIKE metacharacters in it are escaped.
		return col + " ILIKE " + quote("%"+escapeLike(f.Value.str)+"%")
	case OpIn:
		elems := make([]string, len(f.Value.list))
		for i, e := range f.Value.list {
			elems[i] = scalar(e)
		}
		return col + " IN (" + strings.Join(elems, ", ") + ")"
	case OpBetween:
		return col + " BETWEEN " + scalar(*f.Value.lo) + " AND " + scalar(*f.Value.hi)
	case OpIsNull:
		return col + " IS NULL"
	case OpIsNotNull:
		return col + " IS NOT NULL"
	}
	// Unreachable for mutator-constructed filters.
	return col
}

// scalar renders a scalar value: numbers and bools unquoted, strings quoted
// with embedded quotes doubled. User input never reaches the statement
// unescaped.
func scalar(v Value) string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	default:
		return quote(v.str)
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// escapeLike neutralizes LIKE pattern metacharacters in a user value.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
