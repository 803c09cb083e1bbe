package query

import "fmt"

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})
}

// cmpCondition implements a single binary comparison (field <op> value).
type cmpCondition struct {
	field string
	op    string
	value interface{}
}

func (c *cmpCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s %s @%s", c.field, c.op, paramName)
	return sql, map[string]interface{}{paramName: c.value}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("status", "published") generates "status = @p0"
func Eq(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: "=", value: value}
}

// Lte creates a WHERE condition for "field <= value".
func Lte(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: "<=", value: value}
}

// Gte creates a WHERE condition for "field >= value".
func Gte(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: ">=", value: value}
}

// Lt creates a WHERE condition for "field < value".
func Lt(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: "<", value: value}
}

// Gt creates a WHERE condition for "field > value".
func Gt(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: ">", value: value}
}

// RangeOverlaps creates a WHERE condition matching rows whose
// [fromField, toField) range intersects [from, to). Touching ranges do
// not match, in line with the checkout-equals-checkin rule of the
// planning.
// Example: RangeOverlaps("date_from", "date_to", a, b) generates
// "date_from < @p1 AND date_to > @p0".
func RangeOverlaps(fromField, toField string, from, to interface{}) Condition {
	return &overlapCondition{fromField: fromField, toField: toField, from: from, to: to}
}

type overlapCondition struct {
	fromField string
	toField   string
	from      interface{}
	to        interface{}
}

func (c *overlapCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	pFrom := fmt.Sprintf("p%d", paramIndex)
	pTo := fmt.Sprintf("p%d", paramIndex+1)
	sql := fmt.Sprintf("%s < @%s AND %s > @%s", c.fromField, pTo, c.toField, pFrom)
	return sql, map[string]interface{}{pFrom: c.from, pTo: c.to}
}

// IsNull creates a WHERE condition for NULL checks.
// Example: IsNull("pack_id") generates "pack_id IS NULL"
func IsNull(field string) Condition {
	return &isNullCondition{field: field}
}

type isNullCondition struct {
	field string
}

func (c *isNullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	return fmt.Sprintf("%s IS NULL", c.field), map[string]interface{}{}
}

// IsNotNull creates a WHERE condition for NOT NULL checks.
func IsNotNull(field string) Condition {
	return &isNotNullCondition{field: field}
}

type isNotNullCondition struct {
	field string
}

func (c *isNotNullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	return fmt.Sprintf("%s IS NOT NULL", c.field), map[string]interface{}{}
}
