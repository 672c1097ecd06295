package crud

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"crudkit/internal/persistence"
	"crudkit/internal/status"
)

// DeleteAndSave removes the entity with key. The lookup honours the
// mapping's query filter, so a filtered row is reported as not found.
func DeleteAndSave[E any](ctx context.Context, svc *Service, key int64, opts ...LookupOption) (*status.Status, error) {
	return deleteEntity[E](ctx, svc, nil, false, key, opts)
}

// DeleteWithActionAndSave runs action on the entity with key and deletes it
// when the status it returns holds no errors. A nil status counts as valid.
//
// The lookup skips the mapping's query filter unless ApplyQueryFilters is
// given, so soft-deleted rows can be purged; action is where visibility
// rules are enforced.
func DeleteWithActionAndSave[E any](ctx context.Context, svc *Service, action func(*persistence.Context, *E) *status.Status, key int64, opts ...LookupOption) (*status.Status, error) {
	return deleteEntity(ctx, svc, action, true, key, opts)
}

// deleteEntity backs both delete entry points. withAction selects the
// operation name, the error prefix and the query filter default.
func deleteEntity[E any](ctx context.Context, svc *Service, action func(*persistence.Context, *E) *status.Status, withAction bool, key int64, opts []LookupOption) (*status.Status, error) {
	op, fn := "delete", "DeleteAndSave"
	if withAction {
		op, fn = "delete_with_action", "DeleteWithActionAndSave"
	}

	er, err := lookupEntity[E](svc.reg)
	if err != nil {
		_, c := svc.begin(ctx, op, typeName(typeOf[E]()))
		return c.fail(fmt.Errorf("%s: %w", fn, err))
	}
	ctx, c := svc.begin(ctx, op, er.name, attribute.Int64("crud.key", key))
	if withAction && action == nil {
		return c.fail(fmt.Errorf("%s: %w: action is nil", fn, ErrConfiguration))
	}

	st := status.New()
	target, err := findEntity(ctx, svc.pc, er.mapping, key, withAction, opts)
	if err != nil {
		return c.fail(fmt.Errorf("%s: %w", fn, err))
	}
	if target == nil {
		st.AddNotFound(fmt.Sprintf("Sorry, I could not find the %s you wanted to delete.", er.name))
		return c.end(st, nil)
	}

	if action != nil {
		st.CombineStatuses(action(svc.pc, target))
		if !st.IsValid() {
			return c.end(st, nil)
		}
	}

	if err := persistence.For(svc.pc, er.mapping).Remove(target); err != nil {
		return c.fail(fmt.Errorf("%s: %w", fn, err))
	}
	if err := svc.save(ctx); err != nil {
		return c.fail(fmt.Errorf("%s: %w", fn, err))
	}
	st.SetMessage(fmt.Sprintf("Successfully deleted a %s", er.name))
	return c.end(st, nil)
}
