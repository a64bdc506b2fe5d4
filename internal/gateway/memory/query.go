package memory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"hiprompt/internal/gateway"
)

// selector is one entry of a select list: a column, "*", or an embedded
// resource written as alias:table!fk_column(columns).
type selector struct {
	column string
	embed  *embed
}

type embed struct {
	alias   string
	table   string
	fk      string
	columns []selector
}

func parseColumns(s string) ([]selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []selector{{column: "*"}}, nil
	}

	var out []selector
	for _, part := range splitTopLevel(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		open := strings.IndexByte(part, '(')
		if open < 0 {
			out = append(out, selector{column: part})
			continue
		}
		if !strings.HasSuffix(part, ")") {
			return nil, fmt.Errorf("unbalanced parentheses in %q", part)
		}

		head := part[:open]
		inner, err := parseColumns(part[open+1 : len(part)-1])
		if err != nil {
			return nil, err
		}

		e := &embed{columns: inner}
		if alias, rest, ok := strings.Cut(head, ":"); ok {
			e.alias, head = strings.TrimSpace(alias), rest
		}
		if table, fk, ok := strings.Cut(head, "!"); ok {
			e.table, e.fk = strings.TrimSpace(table), strings.TrimSpace(fk)
		} else {
			e.table = strings.TrimSpace(head)
		}
		if e.alias == "" {
			e.alias = e.table
		}
		if e.fk == "" {
			e.fk = singular(e.alias) + "_id"
		}
		out = append(out, selector{embed: e})
	}
	return out, nil
}

func singular(name string) string {
	if strings.HasSuffix(name, "ies") {
		return strings.TrimSuffix(name, "ies") + "y"
	}
	return strings.TrimSuffix(name, "s")
}

func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// project must be called with g.mu held.
func (g *Gateway) project(r row, sels []selector, uid string) row {
	out := row{}
	for _, sel := range sels {
		switch {
		case sel.embed != nil:
			out[sel.embed.alias] = g.resolveEmbed(r, sel.embed, uid)
		case sel.column == "*":
			for k, v := range r {
				out[k] = v
			}
		default:
			out[sel.column] = r[sel.column]
		}
	}
	return out
}

func (g *Gateway) resolveEmbed(r row, e *embed, uid string) interface{} {
	id, ok := r[e.fk].(string)
	if !ok || id == "" {
		return nil
	}
	for _, candidate := range g.tables[e.table] {
		if candidate["id"] == id && canSelect(e.table, candidate, uid) {
			return g.project(candidate, e.columns, uid)
		}
	}
	return nil
}

func matches(r row, filters []gateway.Filter) bool {
	for _, f := range filters {
		v, ok := r[f.Column]
		if !ok || v == nil || valueString(v) != f.Value {
			return false
		}
	}
	return true
}

func matchesSearch(r row, s *gateway.Search) bool {
	if s == nil || s.Term == "" {
		return true
	}
	term := strings.ToLower(s.Term)
	for _, col := range s.Columns {
		if v, ok := r[col].(string); ok && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func valueString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// sortRows orders rows stably. Nulls sort last ascending and first descending.
func sortRows(rows []row, orders []gateway.Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			c := compareValues(rows[i][o.Column], rows[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compareValues(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(valueString(a), valueString(b))
}
