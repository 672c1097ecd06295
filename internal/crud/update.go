package crud

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"crudkit/internal/domain/entity"
	"crudkit/internal/status"
)

// UpdateAndSave loads the entity keyed by dto, applies dto as directed by d,
// validates the DTO and the updated entity and saves only when no error was
// recorded.
//
// When the status is invalid nothing is saved, but the entity stays tracked
// with whatever the operation changed; dispose of the persistence context.
func UpdateAndSave[D any](ctx context.Context, svc *Service, dto D, d Directive) (*status.Status, error) {
	dr, err := lookupDTO[D](svc.reg)
	if err != nil {
		_, c := svc.begin(ctx, "update", typeName(typeOf[D]()))
		return c.fail(fmt.Errorf("UpdateAndSave: %w", err))
	}
	return dr.update(ctx, svc, dto, d)
}

func updateEntity[D, E any](ctx context.Context, svc *Service, er *entityRegistration[E], dr *dtoRegistration[D], cfg DTOConfig[D, E], dto D, d Directive) (*status.Status, error) {
	ctx, c := svc.begin(ctx, "update", er.name, attribute.String("crud.directive", d.String()))

	apply, err := resolveApply(cfg, dr.name, d)
	if err != nil {
		return c.fail(fmt.Errorf("UpdateAndSave: %w", err))
	}

	st := status.New()
	key := cfg.Key(dto)
	c.span.SetAttributes(attribute.Int64("crud.key", key))

	target, err := findEntity(ctx, svc.pc, er.mapping, key, false, nil)
	if err != nil {
		return c.fail(fmt.Errorf("UpdateAndSave: %w", err))
	}
	if target == nil {
		st.AddNotFound(fmt.Sprintf("Sorry, I could not find the %s you wanted to update.", er.name))
		return c.end(st, nil)
	}

	if err := addValidation(st, entity.Validate(&dto)); err != nil {
		return c.fail(fmt.Errorf("UpdateAndSave: validate %s: %w", dr.name, err))
	}
	if !st.IsValid() {
		return c.end(st, nil)
	}

	if err := addValidation(st, apply(target, dto)); err != nil {
		return c.fail(fmt.Errorf("UpdateAndSave: %s: %w", d, err))
	}
	if !st.IsValid() {
		return c.end(st, nil)
	}

	if err := addValidation(st, entity.Validate(target)); err != nil {
		return c.fail(fmt.Errorf("UpdateAndSave: validate %s: %w", er.name, err))
	}
	if !st.IsValid() {
		return c.end(st, nil)
	}

	if err := svc.save(ctx); err != nil {
		return c.fail(fmt.Errorf("UpdateAndSave: %w", err))
	}
	st.SetMessage(fmt.Sprintf("Successfully updated the %s", er.name))
	return c.end(st, nil)
}

// resolveApply picks the function that applies a DTO to its entity.
func resolveApply[D, E any](cfg DTOConfig[D, E], dtoName string, d Directive) (func(*E, D) error, error) {
	if id, ok := d.Operation(); ok {
		fn, found := cfg.Methods[id]
		if !found {
			return nil, fmt.Errorf("%w: %q is not registered for %s", ErrUnknownOperation, id, dtoName)
		}
		return fn, nil
	}
	if cfg.Map != nil {
		return cfg.Map, nil
	}
	return func(dst *E, src D) error {
		return CopyMatchingFields(dst, &src)
	}, nil
}
