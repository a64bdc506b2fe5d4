package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"hiprompt/internal/gateway"
	apperrors "hiprompt/pkg/errors"
)

func (g *Gateway) Select(ctx context.Context, table string, q gateway.Query) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	columns := q.Columns
	if columns == "" {
		columns = "*"
	}

	var body []byte
	err := g.withClient(func(c *supa.Client) error {
		fb := c.From(table).Select(columns, "", false)
		fb = applyFilters(fb, q.Filters)
		if or := searchFilter(q.Search); or != "" {
			fb = fb.Or(or, "")
		}
		for _, o := range q.Order {
			fb = fb.Order(o.Column, &postgrest.OrderOpts{Ascending: o.Ascending})
		}
		if q.Limit > 0 {
			fb = fb.Limit(q.Limit, "")
		}
		if q.Single {
			fb = fb.Single()
		}

		var err error
		body, _, err = fb.Execute()
		return err
	})
	if err != nil {
		return nil, mapDataError(err, table)
	}
	return json.RawMessage(body), nil
}

func (g *Gateway) Insert(ctx context.Context, table string, row interface{}) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body []byte
	err := g.withClient(func(c *supa.Client) error {
		var err error
		body, _, err = c.From(table).Insert(row, false, "", "representation", "").Execute()
		return err
	})
	if err != nil {
		return nil, mapDataError(err, table)
	}
	return firstRow(body, table)
}

func (g *Gateway) Update(ctx context.Context, table string, patch interface{}, filters ...gateway.Filter) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return nil, apperrors.Validation("update without filters is not allowed")
	}

	var body []byte
	err := g.withClient(func(c *supa.Client) error {
		fb := applyFilters(c.From(table).Update(patch, "representation", ""), filters)
		var err error
		body, _, err = fb.Execute()
		return err
	})
	if err != nil {
		return nil, mapDataError(err, table)
	}
	if len(body) == 0 {
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(body), nil
}

func (g *Gateway) Delete(ctx context.Context, table string, filters ...gateway.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(filters) == 0 {
		return apperrors.Validation("delete without filters is not allowed")
	}

	err := g.withClient(func(c *supa.Client) error {
		_, _, err := applyFilters(c.From(table).Delete("minimal", ""), filters).Execute()
		return err
	})
	return mapDataError(err, table)
}

// RPC calls a stored procedure. supabase-go returns the raw body without an
// error, so a PostgREST error object in the body is turned back into one.
func (g *Gateway) RPC(ctx context.Context, fn string, args interface{}) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body string
	_ = g.withClient(func(c *supa.Client) error {
		body = c.Rpc(fn, "", args)
		return nil
	})

	var rpcErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &rpcErr); err == nil && rpcErr.Code != "" && rpcErr.Message != "" {
		return nil, mapDataError(fmt.Errorf("(%s) %s", rpcErr.Code, rpcErr.Message), fn)
	}
	if !json.Valid([]byte(body)) {
		return nil, apperrors.NewData(apperrors.ReasonRemote, "invalid response from "+fn)
	}
	return json.RawMessage(body), nil
}

func applyFilters(fb *postgrest.FilterBuilder, filters []gateway.Filter) *postgrest.FilterBuilder {
	for _, f := range filters {
		fb = fb.Eq(f.Column, f.Value)
	}
	return fb
}

// searchFilter builds "col.ilike.%term%,col2.ilike.%term%". Characters that
// are syntax in an or= expression are dropped from the term.
func searchFilter(s *gateway.Search) string {
	if s == nil {
		return ""
	}
	term := strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '"', '\\', '%', '*':
			return -1
		}
		return r
	}, strings.TrimSpace(s.Term))
	if term == "" || len(s.Columns) == 0 {
		return ""
	}

	parts := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		parts = append(parts, fmt.Sprintf("%s.ilike.%%%s%%", col, term))
	}
	return strings.Join(parts, ",")
}

func firstRow(body []byte, table string) (json.RawMessage, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		// Some servers answer a single insert with the object itself.
		if json.Valid(body) && len(body) > 0 && body[0] == '{' {
			return json.RawMessage(body), nil
		}
		return nil, apperrors.NewData(apperrors.ReasonRemote, "unexpected insert response").WithCause(err)
	}
	if len(rows) == 0 {
		return nil, apperrors.Forbidden(fmt.Sprintf("insert into %s returned no row", table))
	}
	return rows[0], nil
}
