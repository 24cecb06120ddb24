package shipping

import (
	"fmt"
)

// Operator is a comparison understood by the cost-quote service.
type Operator string

const (
	OpEq      Operator = "eq"
	OpIsNull  Operator = "null"
	OpNotNull Operator = "notnull"
)

// SortDirection orders cost quotes.
type SortDirection string

const (
	SortAsc  SortDirection = "+"
	SortDesc SortDirection = "-"
)

// Fields of the cost-quote resource.
const (
	FieldOriginZip      = "zip_origin"
	FieldDestinationZip = "zip_destination"
	FieldWeight         = "weight"
	FieldDimMax         = "dim_max"
	FieldDimMid         = "dim_mid"
	FieldDimMin         = "dim_min"
	FieldError          = "error"
	FieldCost           = "cost"
	FieldQuantity       = "quantity"
	FieldCSN            = "csn"
)

// Condition is a single filter on a cost-quote field.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// SortField orders the result set.
type SortField struct {
	Field     string
	Direction SortDirection
}

// CostQuery is the structured filter and sort sent to the cost-quote service.
type CostQuery struct {
	Conditions []Condition
	Sort       []SortField
}

// requiredEq lists the fields every query must filter by equality.
var requiredEq = []string{
	FieldOriginZip,
	FieldDestinationZip,
	FieldWeight,
	FieldDimMax,
	FieldDimMid,
	FieldDimMin,
	FieldQuantity,
}

// BuildCostQuery builds the cost query for an item shipped from origin to destination.
func BuildCostQuery(item *Item, originZip, destinationZip string) (*CostQuery, error) {
	if originZip == "" {
		return nil, NewConfigurationError("cost query", "origin zip", "not configured")
	}

	t := item.Triple()
	q := &CostQuery{
		Conditions: []Condition{
			{Field: FieldOriginZip, Operator: OpEq, Value: originZip},
			{Field: FieldDestinationZip, Operator: OpEq, Value: destinationZip},
			{Field: FieldWeight, Operator: OpEq, Value: item.Weight()},
			{Field: FieldDimMax, Operator: OpEq, Value: t.Max},
			{Field: FieldDimMid, Operator: OpEq, Value: t.Mid},
			{Field: FieldDimMin, Operator: OpEq, Value: t.Min},
			{Field: FieldError, Operator: OpIsNull},
			{Field: FieldCost, Operator: OpNotNull},
			{Field: FieldQuantity, Operator: OpEq, Value: 1},
			{Field: FieldCSN, Operator: OpEq, Value: item.CSN()},
		},
		Sort: []SortField{{Field: FieldCost, Direction: SortAsc}},
	}
	return q, nil
}

// Value returns the value of the first equality condition on field.
func (q *CostQuery) Value(field string) (any, bool) {
	for _, c := range q.Conditions {
		if c.Field == field && c.Operator == OpEq {
			return c.Value, true
		}
	}
	return nil, false
}

// Validate checks that every required field is constrained.
func (q *CostQuery) Validate() error {
	if q == nil {
		return &InvalidRequestError{Field: "query", Message: "is nil"}
	}
	for _, field := range requiredEq {
		v, ok := q.Value(field)
		if !ok || v == nil {
			return &InvalidRequestError{Field: field, Message: "missing equality filter"}
		}
		if s, isString := v.(string); isString && s == "" {
			return &InvalidRequestError{Field: field, Message: "empty value"}
		}
	}
	for _, s := range q.Sort {
		if s.Direction != SortAsc && s.Direction != SortDesc {
			return &InvalidRequestError{Field: s.Field, Message: fmt.Sprintf("unknown sort direction %q", s.Direction)}
		}
	}
	return nil
}
