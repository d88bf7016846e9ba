package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileEmptyModel(t *testing.T) {
	m := NewModel(testCatalog(t))
	assert.Equal(t, EmptySQL, Compile(m))
}

func TestCompileSingleTableFilter(t *testing.T) {
	m := NewModel(testCatalog(t))
	require.NoError(t, m.AddTable("customers"))
	require.NoError(t, m.ToggleColumn("customers", "name"))
	require.NoError(t, m.AddFilter(Filter{
		Table: "customers", Column: "age",
		Op: OpGreaterThan, Value: Number(18),
	}))

	want := "SELECT customers.name\nFROM customers\nWHERE customers.age > 18"
	assert.Equal(t, want, Compile(m))
}

func TestCompileJoinGroupAggregate(t *testing.T) {
	m := NewModel(testCatalog(t))
	require.NoError(t, m.AddTable("orders"))
	require.NoError(t, m.AddTable("customers"))
	require.NoError(t, m.AddJoin(Join{
		LeftTable: "orders", LeftColumn: "customer_id",
		RightTable: "customers", RightColumn: "id",
		Kind: JoinInner,
	}))
	require.NoError(t, m.AddGroup(Group{Table: "customers", Column: "id"}))
	require.NoError(t, m.AddAggregate(Aggregate{Fn: AggSum, Table: "orders", Column: "total"}))

	sql := Compile(m)

	// With no selected columns, the aggregate alone forms the SELECT list.
	want := "SELECT SUM(orders.total)\n" +
		"FROM orders\n" +
		"INNER JOIN customers ON orders.customer_id = customers.id\n" +
		"GROUP BY customers.id"
	assert.Equal(t, want, sql)
}

func TestCompileStarFallback(t *testing.T) {
	m := NewModel(testCatalog(t))
	require.NoError(t, m.AddTable("customers"))
	assert.Equal(t, "SELECT *\nFROM customers", Compile(m))
}

func TestCompileAliases(t *testing.T) {
	m := NewModel(testCatalog(t))
	require.NoError(t, m.AddTable("customers"))
	require.NoError(t, m.ToggleColumn("customers", "name"))
	require.NoError(t, m.SetColumnAlias("customers", "name", "customer_name"))
	require.NoError(t, m.AddAggregate(Aggregate{Fn: AggCount, Table: "customers", Column: "id", Alias: "n"}))

	want := "SELECT customers.name AS customer_name, COUNT(customers.id) AS n\nFROM customers"
	assert.Equal(t, want, Compile(m))
}

func TestCompileAllOperators(t *testing.T) {
	inList, err := List(String("new"), String("paid"))
	require.NoError(t, err)
	between, err := Range(Number(10), Number(99.5))
	require.NoError(t, err)

	cases := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"equals string", Filter{Table: "orders", Column: "status", Op: OpEquals, Value: String("paid")},
			"orders.status = 'paid'"},
		{"equals bool", Filter{Table: "orders", Column: "status", Op: OpEquals, Value: Bool(true)},
			"orders.status = TRUE"},
		{"not equals", Filter{Table: "orders", Column: "total", Op: OpNotEquals, Value: Number(0)},
			"orders.total != 0"},
		{"greater than", Filter{Table: "orders", Column: "total", Op: OpGreaterThan, Value: Number(9.75)},
			"orders.total > 9.75"},
		{"less than", Filter{Table: "orders", Column: "total", Op: OpLessThan, Value: Number(100)},
			"orders.total < 100"},
		{"like", Filter{Table: "orders", Column: "status", Op: OpLike, Value: String("pend")},
			"orders.status ILIKE '%pend%'"},
		{"in", Filter{Table: "orders", Column: "status", Op: OpIn, Value: inList},
			"orders.status IN ('new', 'paid')"},
		{"between", Filter{Table: "orders", Column: "total", Op: OpBetween, Value: between},
			"orders.total BETWEEN 10 AND 99.5"},
		{"is null", Filter{Table: "orders", Column: "status", Op: OpIsNull, Value: NoValue()},
			"orders.status IS NULL"},
		{"is not null", Filter{Table: "orders", Column: "status", Op: OpIsNotNull, Value: NoValue()},
			"orders.status IS NOT NULL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewModel(testCatalog(t))
			require.NoError(t, m.AddTable("orders"))
			require.NoError(t, m.AddFilter(tc.filter))
			assert.Equal(t, "SELECT *\nFROM orders\nWHERE "+tc.want, Compile(m))
		})
	}
}

func TestCompileConnectives(t *testing.T) {
	m := NewModel(testCatalog(t))
	require.NoError(t, m.AddTable("orders"))
	// The first filter's connective is ignored even when set to OR.
	require.NoError(t, m.AddFilter(Filter{Table: "orders", Column: "total", Op: OpGreaterThan, Value: Number(10), Connective: ConnOr}))
	require.NoError(t, m.AddFilter(Filter{Table: "orders", Column: "status", Op: OpEquals, Value: String("paid"), Connective: ConnOr}))
	require.NoError(t, m.AddFilter(Filter{Table: "orders", Column: "status", Op: OpIsNotNull, Value: NoValue()}))

	want := "WHERE orders.total > 10 OR orders.status = 'paid' AND orders.status IS NOT NULL"
	assert.Contains(t, Compile(m), want)
}

func TestCompileQuoteEscaping(t *testing.T) {
	m := NewModel(testCatalog(t))
	require.NoError(t, m.AddTable("customers"))
	require.NoError(t, m.AddFilter(Filter{
		Table: "customers", Column: "name",
		Op: OpEquals, Value: String("O'Brien"),
	}))

	sql := Compile(m)
	assert.Contains(t, sql, "customers.name = 'O''Brien'")
	// The statement stays a single well-formed condition: an even number of
	// quotes means no string literal is left unterminated.
	assert.Equal(t, 0, strings.Count(sql, "'")%2)
}

func TestCompileLikeEscaping(t *testing.T) {
	m := NewModel(testCatalog(t))
	require.NoError(t, m.AddTable("customers"))
	require.NoError(t, m.AddFilter(Filter{
		Table: "customers", Column: "name",
		Op: OpLike, Value: String(`50%_off`),
	}))

	assert.Contains(t, Compile(m), `customers.name ILIKE '%50\%\_off%'`)
}

func TestCompileSortAndLimit(t *testing.T) {
	m := NewModel(testCatalog(t))
	require.NoError(t, m.AddTable("customers"))
	require.NoError(t, m.AddSort(Sort{Table: "customers", Column: "age", Direction: SortDesc}))
	require.NoError(t, m.AddSort(Sort{Table: "customers", Column: "name", Direction: SortAsc}))
	require.NoError(t, m.SetLimit(25))

	want := "SELECT *\nFROM customers\nORDER BY customers.age DESC, customers.name ASC\nLIMIT 25"
	assert.Equal(t, want, Compile(m))
}

func TestCompileDeterministic(t *testing.T) {
	m := buildFullModel(t)
	first := Compile(m)
	second := Compile(m)
	assert.Equal(t, first, second)
}

func TestCompileClauseOrder(t *testing.T) {
	m := buildFullModel(t)
	require.NoError(t, m.SetLimit(50))
	sql := Compile(m)

	order := []string{"SELECT ", "\nFROM ", " JOIN ", "\nWHERE ", "\nGROUP BY ", "\nORDER BY ", "\nLIMIT "}
	pos := -1
	for _, clause := range order {
		next := strings.Index(sql, clause)
		require.Greater(t, next, pos, "clause %q out of order in:\n%s", clause, sql)
		pos = next
	}
}
