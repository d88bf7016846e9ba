package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/querydesk/querydesk/internal/query"
	"github.com/querydesk/querydesk/internal/tui/theme"
)

// form is one in-pane input dialog. Field values are applied to the query
// model in a single step on submit, so a validation error leaves the model
// untouched and the form open for correction.
type form struct {
	title  string
	labels []string
	fields []textinput.Model
	active int
	apply  func(qm *query.Model, values []string) error
}

func newField(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Width = 36
	ti.Prompt = ""
	return ti
}

func (f *form) view() string {
	var b strings.Builder
	b.WriteString(" " + theme.StyleTitle.Render(f.title))
	b.WriteString("\n")
	for i, field := range f.fields {
		label := f.labels[i]
		style := theme.StyleMuted
		marker := "  "
		if i == f.active {
			style = lipgloss.NewStyle().Foreground(theme.ColorHighlight)
			marker = "> "
		}
		b.WriteString(fmt.Sprintf(" %s%s %s\n", marker, style.Render(label+":"), field.View()))
	}
	b.WriteString(" " + theme.StyleMuted.Render("Enter: next/apply  Esc: cancel"))
	return b.String()
}

func newFilterForm() *form {
	return &form{
		title:  "Add filter",
		labels: []string{"Column", "Operator", "Value", "Connective"},
		fields: []textinput.Model{
			newField("table.column"),
			newField("= != > < like in between null notnull"),
			newField("value (a,b for in; min,max for between)"),
			newField("AND | OR (default AND)"),
		},
		apply: func(qm *query.Model, values []string) error {
			table, column, err := splitQualified(values[0])
			if err != nil {
				return err
			}
			op, err := parseOperator(values[1])
			if err != nil {
				return err
			}
			val, err := parseValue(op, values[2])
			if err != nil {
				return err
			}
			conn, err := parseConnective(values[3])
			if err != nil {
				return err
			}
			return qm.AddFilter(query.Filter{
				Table: table, Column: column,
				Op: op, Value: val, Connective: conn,
			})
		},
	}
}

func newJoinForm() *form {
	return &form{
		title:  "Add join",
		labels: []string{"Left", "Right", "Kind"},
		fields: []textinput.Model{
			newField("table.column"),
			newField("table.column"),
			newField("INNER | LEFT | RIGHT | FULL"),
		},
		apply: func(qm *query.Model, values []string) error {
			lt, lc, err := splitQualified(values[0])
			if err != nil {
				return err
			}
			rt, rc, err := splitQualified(values[1])
			if err != nil {
				return err
			}
			kind := query.JoinKind(strings.ToUpper(values[2]))
			if values[2] == "" {
				kind = query.JoinInner
			}
			return qm.AddJoin(query.Join{
				LeftTable: lt, LeftColumn: lc,
				RightTable: rt, RightColumn: rc,
				Kind: kind,
			})
		},
	}
}

func newSortForm() *form {
	return &form{
		title:  "Add sort",
		labels: []string{"Column", "Direction"},
		fields: []textinput.Model{
			newField("table.column"),
			newField("ASC | DESC (default ASC)"),
		},
		apply: func(qm *query.Model, values []string) error {
			table, column, err := splitQualified(values[0])
			if err != nil {
				return err
			}
			return qm.AddSort(query.Sort{
				Table: table, Column: column,
				Direction: query.SortDirection(strings.ToUpper(values[1])),
			})
		},
	}
}

func newGroupForm() *form {
	return &form{
		title:  "Add grouping",
		labels: []string{"Column"},
		fields: []textinput.Model{
			newField("table.column"),
		},
		apply: func(qm *query.Model, values []string) error {
			table, column, err := splitQualified(values[0])
			if err != nil {
				return err
			}
			return qm.AddGroup(query.Group{Table: table, Column: column})
		},
	}
}

func newAggregateForm() *form {
	return &form{
		title:  "Add aggregate",
		labels: []string{"Function", "Column", "Alias"},
		fields: []textinput.Model{
			newField("COUNT | SUM | AVG | MIN | MAX"),
			newField("table.column"),
			newField("optional"),
		},
		apply: func(qm *query.Model, values []string) error {
			table, column, err := splitQualified(values[1])
			if err != nil {
				return err
			}
			return qm.AddAggregate(query.Aggregate{
				Fn:    query.AggregateFunc(strings.ToUpper(values[0])),
				Table: table, Column: column,
				Alias: values[2],
			})
		},
	}
}

func newLimitForm() *form {
	return &form{
		title:  "Set limit",
		labels: []string{"Rows"},
		fields: []textinput.Model{
			newField("empty clears the limit"),
		},
		apply: func(qm *query.Model, values []string) error {
			if values[0] == "" {
				qm.ClearLimit()
				return nil
			}
			n, err := strconv.Atoi(values[0])
			if err != nil {
				return fmt.Errorf("limit must be an integer: %q", values[0])
			}
			return qm.SetLimit(n)
		},
	}
}

// splitQualified parses a "table.column" reference.
func splitQualified(s string) (table, column string, err error) {
	table, column, ok := strings.Cut(s, ".")
	if !ok || table == "" || column == "" {
		return "", "", fmt.Errorf("expected table.column, got %q", s)
	}
	return table, column, nil
}

// parseOperator accepts both symbols and operator names.
func parseOperator(s string) (query.Operator, error) {
	switch strings.ToLower(s) {
	case "=", "==", "equals":
		return query.OpEquals, nil
	case "!=", "<>", "notequals":
		return query.OpNotEquals, nil
	case ">", "greaterthan":
		return query.OpGreaterThan, nil
	case "<", "lessthan":
		return query.OpLessThan, nil
	case "like", "contains", "~":
		return query.OpLike, nil
	case "in":
		return query.OpIn, nil
	case "between":
		return query.OpBetween, nil
	case "null", "isnull":
		return query.OpIsNull, nil
	case "notnull", "isnotnull":
		return query.OpIsNotNull, nil
	}
	return "", fmt.Errorf("unknown operator %q", s)
}

func parseConnective(s string) (query.Connective, error) {
	switch strings.ToUpper(s) {
	case "", "AND":
		return query.ConnAnd, nil
	case "OR":
		return query.ConnOr, nil
	}
	return "", fmt.Errorf("connective must be AND or OR, got %q", s)
}

// parseScalar infers the value kind: number, bool, else string.
func parseScalar(s string) query.Value {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return query.Number(n)
	}
	switch strings.ToLower(s) {
	case "true":
		return query.Bool(true)
	case "false":
		return query.Bool(false)
	}
	return query.String(s)
}

// parseValue builds the filter value matching the operator's shape.
func parseValue(op query.Operator, raw string) (query.Value, error) {
	switch op {
	case query.OpIsNull, query.OpIsNotNull:
		return query.NoValue(), nil
	case query.OpLike:
		// Matched literally as a substring; no kind inference.
		return query.String(raw), nil
	case query.OpIn:
		parts := splitList(raw)
		elems := make([]query.Value, len(parts))
		for i, p := range parts {
			elems[i] = parseScalar(p)
		}
		return query.List(elems...)
	case query.OpBetween:
		parts := splitList(raw)
		if len(parts) != 2 {
			return query.Value{}, fmt.Errorf("between needs min,max, got %q", raw)
		}
		return query.Range(parseScalar(parts[0]), parseScalar(parts[1]))
	default:
		if raw == "" {
			return query.Value{}, fmt.Errorf("operator %s needs a value", op)
		}
		return parseScalar(raw), nil
	}
}

func splitList(raw string) []string {
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
