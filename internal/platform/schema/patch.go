package schema

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medcore/medcore/internal/platform/apperr"
)

// Patch maps column names to new values. Columns absent from the patch keep
// their stored value.
type Patch map[string]interface{}

// Set records v under col when v is non-nil.
func Set[T any](p Patch, col string, v *T) {
	if v != nil {
		p[col] = *v
	}
}

// Columns returns the patched column names in sorted order.
func (p Patch) Columns() []string {
	cols := make([]string, 0, len(p))
	for c := range p {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Validate checks every patched column against the entity definition.
func (e *Entity) Validate(p Patch) error {
	if len(p) == 0 {
		return apperr.Validation("No fields provided to update")
	}
	for _, name := range p.Columns() {
		c, ok := e.Column(name)
		if !ok {
			return apperr.Validation("unknown field: %s", name)
		}
		if c.Immutable || name == e.Key {
			return apperr.Validation("field %s cannot be updated", name)
		}
		if len(c.Enum) > 0 {
			s, ok := p[name].(string)
			if !ok {
				return apperr.Validation("invalid %s", name)
			}
			if err := e.ValidateEnum(name, s); err != nil {
				return apperr.Validation("%s", err.Error())
			}
		}
		if s, ok := p[name].(string); ok && c.Type == TypeDate && !ValidDate(s) {
			return apperr.Validation("invalid %s: expected YYYY-MM-DD", name)
		}
		if !c.Nullable && p[name] == nil {
			return apperr.Validation("%s cannot be null", name)
		}
	}
	return nil
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// UpdateSQL renders a parameterized UPDATE for the patched columns of the row
// identified by id, returning the post-update row. updated_at is refreshed
// when the entity has one.
func (e *Entity) UpdateSQL(p Patch, id interface{}) (string, []interface{}, error) {
	if err := e.Validate(p); err != nil {
		return "", nil, err
	}

	cols := p.Columns()
	sets := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", pgx.Identifier{col}.Sanitize(), i+1))
		args = append(args, p[col])
	}
	if _, touched := p["updated_at"]; !touched && e.HasColumn("updated_at") {
		sets = append(sets, `"updated_at" = NOW()`)
	}
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		e.QuotedTable(), strings.Join(sets, ", "),
		pgx.Identifier{e.Key}.Sanitize(), len(args), e.SelectList(""))
	return sql, args, nil
}
