package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querydesk/querydesk/internal/query"
)

func TestSplitQualified(t *testing.T) {
	table, column, err := splitQualified("orders.total")
	require.NoError(t, err)
	assert.Equal(t, "orders", table)
	assert.Equal(t, "total", column)

	for _, bad := range []string{"", "orders", "orders.", ".total"} {
		_, _, err := splitQualified(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in   string
		want query.Operator
	}{
		{"=", query.OpEquals},
		{"==", query.OpEquals},
		{"!=", query.OpNotEquals},
		{"<>", query.OpNotEquals},
		{">", query.OpGreaterThan},
		{"<", query.OpLessThan},
		{"like", query.OpLike},
		{"LIKE", query.OpLike},
		{"in", query.OpIn},
		{"between", query.OpBetween},
		{"null", query.OpIsNull},
		{"notnull", query.OpIsNotNull},
	}

	for _, tt := range tests {
		op, err := parseOperator(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, op)
	}

	_, err := parseOperator(">=")
	assert.Error(t, err)
}

func TestParseConnective(t *testing.T) {
	conn, err := parseConnective("")
	require.NoError(t, err)
	assert.Equal(t, query.ConnAnd, conn)

	conn, err = parseConnective("or")
	require.NoError(t, err)
	assert.Equal(t, query.ConnOr, conn)

	_, err = parseConnective("xor")
	assert.Error(t, err)
}

func TestParseScalar(t *testing.T) {
	assert.Equal(t, query.KindNumber, parseScalar("42.5").Kind())
	assert.Equal(t, query.KindBool, parseScalar("true").Kind())
	assert.Equal(t, query.KindBool, parseScalar("FALSE").Kind())
	assert.Equal(t, query.KindString, parseScalar("pending").Kind())
}

func TestParseValue(t *testing.T) {
	v, err := parseValue(query.OpIsNull, "ignored")
	require.NoError(t, err)
	assert.Equal(t, query.KindNone, v.Kind())

	// like keeps the raw text as a string even when it looks numeric
	v, err = parseValue(query.OpLike, "2024")
	require.NoError(t, err)
	assert.Equal(t, query.KindString, v.Kind())

	v, err = parseValue(query.OpIn, "pending, shipped ,done")
	require.NoError(t, err)
	assert.Equal(t, query.KindList, v.Kind())

	v, err = parseValue(query.OpBetween, "10, 20")
	require.NoError(t, err)
	assert.Equal(t, query.KindRange, v.Kind())

	_, err = parseValue(query.OpBetween, "10")
	assert.Error(t, err)

	_, err = parseValue(query.OpEquals, "")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList(" a, b ,c ,"))
	assert.Nil(t, splitList(""))
}
