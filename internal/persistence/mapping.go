package persistence

import (
	"errors"
	"fmt"
	"strings"
)

// Filter is a SQL predicate with `?` placeholders.
type Filter struct {
	Clause string
	Args   []any
}

// Where builds a Filter.
func Where(clause string, args ...any) Filter {
	return Filter{Clause: clause, Args: args}
}

// IsZero reports whether f has no clause.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Clause) == ""
}

// Mapping binds a Go type to a table.
//
// Values must return the non-key column values in Columns order, and Scan
// must return scan destinations for KeyColumn followed by Columns.
// QueryFilter, when set, is applied to every read through the entity set
// unless the set is derived with IgnoreQueryFilters.
type Mapping[T any] struct {
	Name        string
	Table       string
	KeyColumn   string
	Columns     []string
	Key         func(*T) int64
	SetKey      func(*T, int64)
	Values      func(*T) []any
	Scan        func(*T) []any
	QueryFilter *Filter
}

// Validate reports missing mapping parts.
func (m *Mapping[T]) Validate() error {
	if m == nil {
		return errors.New("mapping is nil")
	}
	var missing []string
	if m.Table == "" {
		missing = append(missing, "Table")
	}
	if m.KeyColumn == "" {
		missing = append(missing, "KeyColumn")
	}
	if len(m.Columns) == 0 {
		missing = append(missing, "Columns")
	}
	if m.Key == nil {
		missing = append(missing, "Key")
	}
	if m.SetKey == nil {
		missing = append(missing, "SetKey")
	}
	if m.Values == nil {
		missing = append(missing, "Values")
	}
	if m.Scan == nil {
		missing = append(missing, "Scan")
	}
	if len(missing) > 0 {
		return fmt.Errorf("mapping for table %q: missing %s", m.Table, strings.Join(missing, ", "))
	}
	return nil
}

func (m *Mapping[T]) selectList() string {
	return m.KeyColumn + ", " + strings.Join(m.Columns, ", ")
}

func (m *Mapping[T]) insertSQL(withKey bool) string {
	cols := m.Columns
	if withKey {
		cols = append([]string{m.KeyColumn}, m.Columns...)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		m.Table, strings.Join(cols, ", "), placeholders, m.KeyColumn)
}

func (m *Mapping[T]) updateSQL() string {
	sets := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		sets = append(sets, c+" = ?")
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", m.Table, strings.Join(sets, ", "), m.KeyColumn)
}

func (m *Mapping[T]) deleteSQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = ?", m.Table, m.KeyColumn)
}
