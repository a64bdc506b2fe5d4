// Package memory is an in-process gateway. It enforces the same row-level
// security as the hosted database so it can stand in for it in tests and
// offline demos.
package memory

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"hiprompt/internal/gateway"
)

// timeLayout is fixed-width so timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

type row = map[string]interface{}

type account struct {
	user      gateway.User
	password  string
	confirmed bool
}

// Gateway is an in-memory implementation of gateway.Auth and gateway.Tables.
type Gateway struct {
	mu sync.Mutex

	accounts map[string]*account // email -> account
	tables   map[string][]row
	session  *gateway.AuthSession

	listeners map[int]gateway.AuthListener
	nextID    int

	autoConfirm bool
	clock       func() time.Time
	lastTime    time.Time

	shouldFailOn map[string]error
}

var (
	_ gateway.Gateway = (*Gateway)(nil)
	_ gateway.Auth    = (*Gateway)(nil)
	_ gateway.Tables  = (*Gateway)(nil)
)

// Option configures a Gateway.
type Option func(*Gateway)

// WithAutoConfirm makes SignUp return a live session, as a project with email
// confirmation disabled does.
func WithAutoConfirm(enabled bool) Option {
	return func(g *Gateway) { g.autoConfirm = enabled }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(g *Gateway) { g.clock = clock }
}

// New creates an empty gateway.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		accounts: make(map[string]*account),
		tables: map[string][]row{
			gateway.TableProfiles:    {},
			gateway.TableCategories:  {},
			gateway.TablePrompts:     {},
			gateway.TablePromptLikes: {},
		},
		listeners:    make(map[int]gateway.AuthListener),
		clock:        time.Now,
		shouldFailOn: make(map[string]error),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Auth() gateway.Auth     { return g }
func (g *Gateway) Tables() gateway.Tables { return g }
func (g *Gateway) Close() error           { return nil }

// SetError configures the gateway to return err for a method. The key is the
// method name ("Select") or method and table ("Update:prompts").
func (g *Gateway) SetError(method string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shouldFailOn[method] = err
}

// ClearErrors removes all configured errors.
func (g *Gateway) ClearErrors() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shouldFailOn = make(map[string]error)
}

// checkError must be called with g.mu held.
func (g *Gateway) checkError(method, table string) error {
	if table != "" {
		if err, ok := g.shouldFailOn[method+":"+table]; ok {
			return err
		}
	}
	if err, ok := g.shouldFailOn[method]; ok {
		return err
	}
	return nil
}

// now returns a strictly increasing timestamp.
func (g *Gateway) now() time.Time {
	t := g.clock().UTC().Truncate(time.Microsecond)
	if !t.After(g.lastTime) {
		t = g.lastTime.Add(time.Microsecond)
	}
	g.lastTime = t
	return t
}

func (g *Gateway) stamp() string {
	return g.now().Format(timeLayout)
}

// Seed inserts a row bypassing row-level security and returns its id.
func (g *Gateway) Seed(table string, values interface{}) (string, error) {
	r, err := toRow(values)
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.tables[table]; !ok {
		return "", fmt.Errorf("unknown table %q", table)
	}
	g.applyDefaults(table, r)
	g.tables[table] = append(g.tables[table], r)
	return r["id"].(string), nil
}

// SeedCategory adds a category and returns its id.
func (g *Gateway) SeedCategory(name string) string {
	id, _ := g.Seed(gateway.TableCategories, map[string]interface{}{"name": name})
	return id
}

// Count returns the number of rows in a table matching the filters,
// ignoring row-level security.
func (g *Gateway) Count(table string, filters ...gateway.Filter) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, r := range g.tables[table] {
		if matches(r, filters) {
			n++
		}
	}
	return n
}

func (g *Gateway) applyDefaults(table string, r row) {
	if id, ok := r["id"].(string); !ok || id == "" {
		r["id"] = uuid.New().String()
	}
	if _, ok := r["created_at"]; !ok {
		r["created_at"] = g.stamp()
	}

	switch table {
	case gateway.TablePrompts:
		setDefault(r, "updated_at", r["created_at"])
		setDefault(r, "is_public", true)
		setDefault(r, "likes_count", float64(0))
		setDefault(r, "views_count", float64(0))
		setDefault(r, "tags", nil)
		setDefault(r, "description", nil)
		setDefault(r, "category_id", nil)
	case gateway.TableProfiles:
		setDefault(r, "updated_at", r["created_at"])
		setDefault(r, "username", nil)
		setDefault(r, "full_name", nil)
		setDefault(r, "avatar_url", nil)
	case gateway.TableCategories:
		setDefault(r, "description", nil)
	}
}

func setDefault(r row, key string, value interface{}) {
	if _, ok := r[key]; !ok {
		r[key] = value
	}
}

// toRow normalizes any JSON-serializable value into a generic row.
func toRow(v interface{}) (row, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	var r row
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("row must be a JSON object: %w", err)
	}
	if r == nil {
		r = row{}
	}
	return r, nil
}

func copyRow(r row) row {
	out := make(row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
