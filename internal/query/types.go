package query

// JoinKind is the SQL join type of a join edge.
type JoinKind string

const (
	JoinInner JoinKind = "INNER"
	JoinLeft  JoinKind = "LEFT"
	JoinRight JoinKind = "RIGHT"
	JoinFull  JoinKind = "FULL"
)

// JoinKinds lists the valid join kinds in display order.
func JoinKinds() []JoinKind {
	return []JoinKind{JoinInner, JoinLeft, JoinRight, JoinFull}
}

func (k JoinKind) valid() bool {
	switch k {
	case JoinInner, JoinLeft, JoinRight, JoinFull:
		return true
	}
	return false
}

// Operator is a filter comparison operator.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "notEquals"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpLike        Operator = "like"
	OpIn          Operator = "in"
	OpBetween     Operator = "between"
	OpIsNull      Operator = "isNull"
	OpIsNotNull   Operator = "isNotNull"
)

// Operators lists the filter operators in display order.
func Operators() []Operator {
	return []Operator{
		OpEquals, OpNotEquals, OpGreaterThan, OpLessThan,
		OpLike, OpIn, OpBetween, OpIsNull, OpIsNotNull,
	}
}

func (o Operator) valid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpGreaterThan, OpLessThan,
		OpLike, OpIn, OpBetween, OpIsNull, OpIsNotNull:
		return true
	}
	return false
}

// wantsKind reports whether the operator accepts a value of the given shape.
func (o Operator) wantsKind(k ValueKind) bool {
	switch o {
	case OpEquals, OpNotEquals:
		return k == KindString || k == KindNumber || k == KindBool
	case OpGreaterThan, OpLessThan:
		return k == KindString || k == KindNumber
	case OpLike:
		return k == KindString
	case OpIn:
		return k == KindList
	case OpBetween:
		return k == KindRange
	case OpIsNull, OpIsNotNull:
		return k == KindNone
	}
	return false
}

// Connective joins a filter condition to the previous one. The first
// filter's connective is ignored.
type Connective string

const (
	ConnAnd Connective = "AND"
	ConnOr  Connective = "OR"
)

// SortDirection orders a sort key.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// AggregateFunc is a SQL aggregate function.
type AggregateFunc string

const (
	AggCount AggregateFunc = "COUNT"
	AggSum   AggregateFunc = "SUM"
	AggAvg   AggregateFunc = "AVG"
	AggMin   AggregateFunc = "MIN"
	AggMax   AggregateFunc = "MAX"
)

// AggregateFuncs lists the aggregate functions in display order.
func AggregateFuncs() []AggregateFunc {
	return []AggregateFunc{AggCount, AggSum, AggAvg, AggMin, AggMax}
}

func (f AggregateFunc) valid() bool {
	switch f {
	case AggCount, AggSum, AggAvg, AggMin, AggMax:
		return true
	}
	return false
}

// SelectedColumn is one entry of the SELECT list.
type SelectedColumn struct {
	Table  string
	Column string
	Alias  string // optional
}

// Join is a directed join edge; the right table is the one listed in the
// rendered JOIN clause.
type Join struct {
	LeftTable   string
	LeftColumn  string
	RightTable  string
	RightColumn string
	Kind        JoinKind
}

// Filter is one WHERE condition.
type Filter struct {
	Table      string
	Column     string
	Op         Operator
	Value      Value
	Connective Connective // meaningful from the second filter onward
}

// Sort is one ORDER BY key.
type Sort struct {
	Table     string
	Column    string
	Direction SortDirection
}

// Group is one GROUP BY key.
type Group struct {
	Table  string
	Column string
}

// Aggregate is one aggregate expression of the SELECT list.
type Aggregate struct {
	Fn     AggregateFunc
	Table  string
	Column string
	Alias  string // optional
}
