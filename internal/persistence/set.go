package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crudkit/internal/observability/metrics"
)

// Set is a typed view over one mapped table within a Context.
// Derived sets share the Context and its tracker.
type Set[T any] struct {
	pc            *Context
	m             *Mapping[T]
	ignoreFilters bool
	filters       []Filter
}

// For returns the entity set of T described by m.
func For[T any](pc *Context, m *Mapping[T]) *Set[T] {
	return &Set[T]{pc: pc, m: m}
}

// Mapping returns the mapping the set was built from.
func (s *Set[T]) Mapping() *Mapping[T] { return s.m }

// IgnoreQueryFilters returns a set that skips the mapping's query filter.
// Explicit Where filters still apply.
func (s *Set[T]) IgnoreQueryFilters() *Set[T] {
	out := s.derive()
	out.ignoreFilters = true
	return out
}

// Where returns a set restricted by f in addition to existing filters.
func (s *Set[T]) Where(f Filter) *Set[T] {
	out := s.derive()
	if !f.IsZero() {
		out.filters = append(out.filters, f)
	}
	return out
}

func (s *Set[T]) derive() *Set[T] {
	return &Set[T]{
		pc:            s.pc,
		m:             s.m,
		ignoreFilters: s.ignoreFilters,
		filters:       append([]Filter(nil), s.filters...),
	}
}

// predicates returns the active WHERE clauses and their arguments.
func (s *Set[T]) predicates() ([]string, []any) {
	var clauses []string
	var args []any
	if !s.ignoreFilters && s.m.QueryFilter != nil && !s.m.QueryFilter.IsZero() {
		clauses = append(clauses, "("+s.m.QueryFilter.Clause+")")
		args = append(args, s.m.QueryFilter.Args...)
	}
	for _, f := range s.filters {
		clauses = append(clauses, "("+f.Clause+")")
		args = append(args, f.Args...)
	}
	return clauses, args
}

func (s *Set[T]) bind(e *T) binding {
	m := s.m
	return binding{
		table:     m.Table,
		values:    func() []any { return m.Values(e) },
		key:       func() int64 { return m.Key(e) },
		setKey:    func(k int64) { m.SetKey(e, k) },
		insertSQL: m.insertSQL(false),
		insertKey: m.insertSQL(true),
		updateSQL: m.updateSQL(),
		deleteSQL: m.deleteSQL(),
	}
}

// Find loads the entity with key. It returns (nil, nil) when no visible row
// matches. A row that is already tracked resolves to the tracked instance;
// entities marked for deletion are not visible.
func (s *Set[T]) Find(ctx context.Context, key int64) (*T, error) {
	if s.pc.closed {
		return nil, ErrClosed
	}
	clauses, args := s.predicates()
	clauses = append([]string{s.m.KeyColumn + " = ?"}, clauses...)
	args = append([]any{key}, args...)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		s.m.selectList(), s.m.Table, strings.Join(clauses, " AND "))

	start := time.Now()
	rows, err := s.pc.db.QueryContext(ctx, s.pc.dialect.Rebind(query), args...)
	metrics.RecordDBQuery("select", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("Find: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("Find: rows: %w", err)
		}
		return nil, nil
	}
	var loaded T
	if err := rows.Scan(s.m.Scan(&loaded)...); err != nil {
		return nil, fmt.Errorf("Find: Scan: %w", err)
	}
	return s.resolve(&loaded), nil
}

// List loads every visible entity ordered by key.
func (s *Set[T]) List(ctx context.Context) ([]*T, error) {
	if s.pc.closed {
		return nil, ErrClosed
	}
	clauses, args := s.predicates()
	query := fmt.Sprintf("SELECT %s FROM %s", s.m.selectList(), s.m.Table)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY " + s.m.KeyColumn + " ASC"

	start := time.Now()
	rows, err := s.pc.db.QueryContext(ctx, s.pc.dialect.Rebind(query), args...)
	metrics.RecordDBQuery("select", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*T
	for rows.Next() {
		var loaded T
		if err := rows.Scan(s.m.Scan(&loaded)...); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		if e := s.resolve(&loaded); e != nil {
			out = append(out, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return out, nil
}

// Count returns the number of visible rows in the database.
func (s *Set[T]) Count(ctx context.Context) (int64, error) {
	if s.pc.closed {
		return 0, ErrClosed
	}
	clauses, args := s.predicates()
	query := "SELECT COUNT(*) FROM " + s.m.Table
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	start := time.Now()
	rows, err := s.pc.db.QueryContext(ctx, s.pc.dialect.Rebind(query), args...)
	metrics.RecordDBQuery("count", time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("Count: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("Count: Scan: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("Count: rows: %w", err)
	}
	return n, nil
}

// resolve maps a freshly scanned row onto the identity map.
func (s *Set[T]) resolve(loaded *T) *T {
	if tracked, ok := s.pc.tracker.lookup(s.m.Table, s.m.Key(loaded)); ok {
		if tracked.state == Deleted {
			return nil
		}
		return tracked.entity.(*T)
	}
	s.pc.tracker.track(&entry{
		entity:   loaded,
		bind:     s.bind(loaded),
		state:    Unchanged,
		snapshot: cloneValues(s.m.Values(loaded)),
	})
	return loaded
}

// Add begins tracking e for insertion.
func (s *Set[T]) Add(e *T) error {
	if err := s.checkArg(e); err != nil {
		return fmt.Errorf("Add: %w", err)
	}
	if cur, ok := s.pc.tracker.byEntity[any(e)]; ok {
		if cur.state == Deleted {
			cur.state = Unchanged
			return nil
		}
		return fmt.Errorf("Add: entity already tracked as %s", cur.currentState())
	}
	s.pc.tracker.track(&entry{entity: e, bind: s.bind(e), state: Added})
	return nil
}

// Attach begins tracking e as an existing, unchanged row.
func (s *Set[T]) Attach(e *T) error {
	if err := s.checkArg(e); err != nil {
		return fmt.Errorf("Attach: %w", err)
	}
	if _, ok := s.pc.tracker.byEntity[any(e)]; ok {
		return nil
	}
	key := s.m.Key(e)
	if key == 0 {
		return fmt.Errorf("Attach: %s entity has no key", s.m.Table)
	}
	if _, ok := s.pc.tracker.lookup(s.m.Table, key); ok {
		return fmt.Errorf("Attach: another %s instance with key %d is already tracked", s.m.Table, key)
	}
	s.pc.tracker.track(&entry{
		entity:   e,
		bind:     s.bind(e),
		state:    Unchanged,
		snapshot: cloneValues(s.m.Values(e)),
	})
	return nil
}

// Remove marks e for deletion. An entity that was only added is detached.
func (s *Set[T]) Remove(e *T) error {
	if err := s.checkArg(e); err != nil {
		return fmt.Errorf("Remove: %w", err)
	}
	cur, ok := s.pc.tracker.byEntity[any(e)]
	if !ok {
		if err := s.Attach(e); err != nil {
			return fmt.Errorf("Remove: %w", err)
		}
		cur = s.pc.tracker.byEntity[any(e)]
	}
	if cur.state == Added {
		s.pc.tracker.detach(cur)
		return nil
	}
	cur.state = Deleted
	return nil
}

func (s *Set[T]) checkArg(e *T) error {
	if s.pc.closed {
		return ErrClosed
	}
	if e == nil {
		return errors.New("entity is nil")
	}
	return nil
}
