package persistence

// EntryState is the tracking state of an entity.
type EntryState int

const (
	Detached EntryState = iota
	Unchanged
	Added
	Modified
	Deleted
)

func (s EntryState) String() string {
	switch s {
	case Detached:
		return "detached"
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Entry is a read-only view of a tracked entity.
type Entry struct {
	Entity any
	Table  string
	Key    int64
	State  EntryState
}

type identity struct {
	table string
	key   int64
}

// binding carries the type-specific operations of a tracked entity.
type binding struct {
	table     string
	values    func() []any
	key       func() int64
	setKey    func(int64)
	insertSQL string
	insertKey string
	updateSQL string
	deleteSQL string
}

type entry struct {
	entity   any
	bind     binding
	state    EntryState
	snapshot []any
}

// currentState resolves Unchanged into Modified when the values differ
// from the snapshot.
func (e *entry) currentState() EntryState {
	if e.state == Unchanged && !valuesEqual(e.snapshot, e.bind.values()) {
		return Modified
	}
	return e.state
}

// ChangeTracker is the identity map and change log of a Context.
type ChangeTracker struct {
	entries  []*entry
	byEntity map[any]*entry
	byKey    map[identity]*entry
}

func newChangeTracker() *ChangeTracker {
	return &ChangeTracker{
		byEntity: make(map[any]*entry),
		byKey:    make(map[identity]*entry),
	}
}

// Entries returns all tracked entities in tracking order.
func (t *ChangeTracker) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, Entry{
			Entity: e.entity,
			Table:  e.bind.table,
			Key:    e.bind.key(),
			State:  e.currentState(),
		})
	}
	return out
}

// State returns the state of entity, or Detached when it is not tracked.
func (t *ChangeTracker) State(entity any) EntryState {
	e, ok := t.byEntity[entity]
	if !ok {
		return Detached
	}
	return e.currentState()
}

// HasChanges reports whether SaveChanges would write anything.
func (t *ChangeTracker) HasChanges() bool {
	for _, e := range t.entries {
		if e.currentState() != Unchanged {
			return true
		}
	}
	return false
}

// Clear stops tracking every entity. Pending changes are discarded.
func (t *ChangeTracker) Clear() {
	t.entries = nil
	t.byEntity = make(map[any]*entry)
	t.byKey = make(map[identity]*entry)
}

func (t *ChangeTracker) lookup(table string, key int64) (*entry, bool) {
	e, ok := t.byKey[identity{table: table, key: key}]
	return e, ok
}

func (t *ChangeTracker) track(e *entry) {
	t.entries = append(t.entries, e)
	t.byEntity[e.entity] = e
	if e.state != Added {
		t.byKey[identity{table: e.bind.table, key: e.bind.key()}] = e
	}
}

func (t *ChangeTracker) detach(e *entry) {
	delete(t.byEntity, e.entity)
	id := identity{table: e.bind.table, key: e.bind.key()}
	if cur, ok := t.byKey[id]; ok && cur == e {
		delete(t.byKey, id)
	}
	for i, cur := range t.entries {
		if cur == e {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			break
		}
	}
}

// accept marks a flushed entry as persisted.
func (t *ChangeTracker) accept(e *entry, state EntryState) {
	switch state {
	case Deleted:
		t.detach(e)
	case Added:
		e.state = Unchanged
		e.snapshot = cloneValues(e.bind.values())
		t.byKey[identity{table: e.bind.table, key: e.bind.key()}] = e
	default:
		e.state = Unchanged
		e.snapshot = cloneValues(e.bind.values())
	}
}
