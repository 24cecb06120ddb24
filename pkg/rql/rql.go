// Package rql encodes resource query language filters for datastore URLs,
// e.g. "and(eq(zip_origin,string:84101),eqn(error))&sort(+cost)&limit(20)".
package rql

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is a filter expression.
type Node interface {
	String() string
}

type call struct {
	name string
	args []string
}

func (c call) String() string {
	return c.name + "(" + strings.Join(c.args, ",") + ")"
}

// Eq matches rows where field equals value.
func Eq(field string, value any) Node {
	return call{name: "eq", args: []string{Escape(field), Value(value)}}
}

// IsNull matches rows where field is null.
func IsNull(field string) Node {
	return call{name: "eqn", args: []string{Escape(field)}}
}

// Not negates a node.
func Not(n Node) Node {
	return call{name: "not", args: []string{n.String()}}
}

// And joins nodes. A single node is returned unchanged.
func And(nodes ...Node) Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	args := make([]string, len(nodes))
	for i, n := range nodes {
		args[i] = n.String()
	}
	return call{name: "and", args: args}
}

// Query is a filter with optional sort and limit.
type Query struct {
	Filter Node
	Sort   []string // "+field" or "-field"
	Limit  int
}

// String encodes the query for use as a raw URL query string.
func (q Query) String() string {
	var parts []string
	if q.Filter != nil {
		parts = append(parts, q.Filter.String())
	}
	if len(q.Sort) > 0 {
		fields := make([]string, len(q.Sort))
		for i, s := range q.Sort {
			if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
				fields[i] = s[:1] + Escape(s[1:])
			} else {
				fields[i] = "+" + Escape(s)
			}
		}
		parts = append(parts, "sort("+strings.Join(fields, ",")+")")
	}
	if q.Limit > 0 {
		parts = append(parts, "limit("+strconv.Itoa(q.Limit)+")")
	}
	return strings.Join(parts, "&")
}

// Value encodes a typed value. Strings carry a "string:" prefix so numeric
// looking zip codes and ids are not coerced by the server.
func Value(v any) string {
	switch t := v.(type) {
	case nil:
		return "null()"
	case string:
		return "string:" + Escape(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	}
	return Escape(fmt.Sprint(v))
}

// Escape percent-encodes everything except unreserved characters.
func Escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

const hex = "0123456789ABCDEF"

func isUnreserved(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.' || c == '~'
}
