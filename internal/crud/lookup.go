package crud

import (
	"context"

	"crudkit/internal/persistence"
)

// LookupOption adjusts how a dispatch call locates its entity.
type LookupOption func(*lookupOptions)

type lookupOptions struct {
	ignoreFilters *bool
	where         []persistence.Filter
}

// IgnoreQueryFilters skips the entity mapping's query filter.
func IgnoreQueryFilters() LookupOption {
	return func(o *lookupOptions) {
		v := true
		o.ignoreFilters = &v
	}
}

// ApplyQueryFilters forces the entity mapping's query filter on.
func ApplyQueryFilters() LookupOption {
	return func(o *lookupOptions) {
		v := false
		o.ignoreFilters = &v
	}
}

// Where adds an explicit visibility predicate to the lookup.
func Where(f persistence.Filter) LookupOption {
	return func(o *lookupOptions) {
		o.where = append(o.where, f)
	}
}

// findEntity loads key through the set of m. ignoreByDefault applies when
// no option sets the query-filter behaviour explicitly.
func findEntity[E any](ctx context.Context, pc *persistence.Context, m *persistence.Mapping[E], key int64, ignoreByDefault bool, opts []LookupOption) (*E, error) {
	var o lookupOptions
	for _, opt := range opts {
		opt(&o)
	}
	ignore := ignoreByDefault
	if o.ignoreFilters != nil {
		ignore = *o.ignoreFilters
	}

	set := persistence.For(pc, m)
	if ignore {
		set = set.IgnoreQueryFilters()
	}
	for _, f := range o.where {
		set = set.Where(f)
	}
	return set.Find(ctx, key)
}
