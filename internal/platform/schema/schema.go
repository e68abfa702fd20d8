// Package schema holds per-entity table definitions used by the repositories
// to build column lists, partial updates and substring searches.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
)

type Type string

const (
	TypeText      Type = "text"
	TypeInt       Type = "integer"
	TypeSerial    Type = "serial"
	TypeBool      Type = "boolean"
	TypeDate      Type = "date"
	TypeTimestamp Type = "timestamptz"
)

type Column struct {
	Name       string
	Type       Type
	Nullable   bool
	Default    string
	Enum       []string
	References string // "table.column" for foreign keys
	Searchable bool
	// Immutable columns are written on insert only.
	Immutable bool
	// Hidden columns are never selected into read views (password hashes).
	Hidden bool
}

type RelationKind string

const (
	BelongsTo RelationKind = "belongs-to"
	HasMany   RelationKind = "has-many"
	HasOne    RelationKind = "has-one"
)

type Relation struct {
	Kind    RelationKind
	Target  string
	JoinKey string
}

type Entity struct {
	Name      string
	Table     string
	Key       string
	Columns   []Column
	Relations []Relation
	// OrderBy is the default listing order, e.g. "created_at DESC".
	OrderBy string
}

// Column returns the named column definition.
func (e *Entity) Column(name string) (Column, bool) {
	for _, c := range e.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (e *Entity) HasColumn(name string) bool {
	_, ok := e.Column(name)
	return ok
}

// ColumnNames lists visible columns in declaration order.
func (e *Entity) ColumnNames() []string {
	names := make([]string, 0, len(e.Columns))
	for _, c := range e.Columns {
		if !c.Hidden {
			names = append(names, c.Name)
		}
	}
	return names
}

// SearchColumns lists the text columns matched by substring search.
func (e *Entity) SearchColumns() []string {
	var names []string
	for _, c := range e.Columns {
		if c.Searchable {
			names = append(names, c.Name)
		}
	}
	return names
}

// QualifiedSearchColumns is SearchColumns prefixed with a table alias.
func (e *Entity) QualifiedSearchColumns(alias string) []string {
	cols := e.SearchColumns()
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return cols
}

// SelectList renders the visible columns for a SELECT or RETURNING clause,
// optionally qualified by a table alias. Date columns are rendered as
// YYYY-MM-DD text so no timezone conversion happens on the way out.
func (e *Entity) SelectList(alias string) string {
	parts := make([]string, 0, len(e.Columns))
	for _, c := range e.Columns {
		if c.Hidden {
			continue
		}
		parts = append(parts, selectExpr(alias, c))
	}
	return strings.Join(parts, ", ")
}

func selectExpr(alias string, c Column) string {
	ref := pgx.Identifier{c.Name}.Sanitize()
	if alias != "" {
		ref = alias + "." + ref
	}
	if c.Type == TypeDate {
		return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD') AS %s", ref, pgx.Identifier{c.Name}.Sanitize())
	}
	return ref
}

// ValidateEnum checks value against the column's allowed set. Columns without
// an enum accept anything.
func (e *Entity) ValidateEnum(column, value string) error {
	c, ok := e.Column(column)
	if !ok {
		return fmt.Errorf("unknown column %s.%s", e.Name, column)
	}
	if len(c.Enum) == 0 {
		return nil
	}
	for _, allowed := range c.Enum {
		if value == allowed {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s. Must be one of: %s", column, value, strings.Join(c.Enum, ", "))
}

// QuotedTable returns the sanitized table identifier.
func (e *Entity) QuotedTable() string {
	return pgx.Identifier{e.Table}.Sanitize()
}

// Registry maps entity names to definitions. Entities register themselves
// independently; registering one never touches another.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*Entity
}

func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*Entity)}
}

// Default is the process-wide registry populated by the domain packages.
var Default = NewRegistry()

func (r *Registry) Register(e *Entity) error {
	if e.Name == "" || e.Table == "" || e.Key == "" {
		return fmt.Errorf("entity requires name, table and key")
	}
	if !e.HasColumn(e.Key) {
		return fmt.Errorf("entity %s: key column %s is not declared", e.Name, e.Key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entities[e.Name]; exists {
		return fmt.Errorf("entity %s already registered", e.Name)
	}
	r.entities[e.Name] = e
	return nil
}

// MustRegister is Register for package-level definitions.
func (r *Registry) MustRegister(e *Entity) *Entity {
	if err := r.Register(e); err != nil {
		panic(err)
	}
	return e
}

func (r *Registry) Lookup(name string) (*Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[name]
	return e, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entities))
	for n := range r.entities {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
