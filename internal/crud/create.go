package crud

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"crudkit/internal/domain/entity"
	"crudkit/internal/persistence"
	"crudkit/internal/status"
)

// CreateAndSave builds a new entity from dto, validates it, inserts it and
// writes the generated key back onto dto when the registration has SetKey.
func CreateAndSave[D any](ctx context.Context, svc *Service, dto *D) (*status.Status, error) {
	dr, err := lookupDTO[D](svc.reg)
	if err != nil {
		_, c := svc.begin(ctx, "create", typeName(typeOf[D]()))
		return c.fail(fmt.Errorf("CreateAndSave: %w", err))
	}
	if dto == nil {
		return nil, errors.New("CreateAndSave: dto is nil")
	}
	return dr.create(ctx, svc, dto)
}

func createEntity[D, E any](ctx context.Context, svc *Service, er *entityRegistration[E], cfg DTOConfig[D, E], dto *D) (*status.Status, error) {
	ctx, c := svc.begin(ctx, "create", er.name)
	st := status.New()

	if err := addValidation(st, entity.Validate(dto)); err != nil {
		return c.fail(fmt.Errorf("CreateAndSave: validate: %w", err))
	}
	if !st.IsValid() {
		return c.end(st, nil)
	}

	created, err := buildEntity(cfg, *dto)
	if err := addValidation(st, err); err != nil {
		return c.fail(fmt.Errorf("CreateAndSave: build %s: %w", er.name, err))
	}
	if !st.IsValid() {
		return c.end(st, nil)
	}
	if created == nil {
		return c.fail(fmt.Errorf("CreateAndSave: %w: Create returned no %s", ErrConfiguration, er.name))
	}

	if err := addValidation(st, entity.Validate(created)); err != nil {
		return c.fail(fmt.Errorf("CreateAndSave: validate %s: %w", er.name, err))
	}
	if !st.IsValid() {
		return c.end(st, nil)
	}

	if err := persistence.For(svc.pc, er.mapping).Add(created); err != nil {
		return c.fail(fmt.Errorf("CreateAndSave: %w", err))
	}
	if err := svc.save(ctx); err != nil {
		return c.fail(fmt.Errorf("CreateAndSave: %w", err))
	}

	key := er.mapping.Key(created)
	c.span.SetAttributes(attribute.Int64("crud.key", key))
	if cfg.SetKey != nil {
		cfg.SetKey(dto, key)
	}
	st.SetMessage(fmt.Sprintf("Successfully created a %s", er.name))
	return c.end(st, nil)
}

func buildEntity[D, E any](cfg DTOConfig[D, E], dto D) (*E, error) {
	if cfg.Create != nil {
		return cfg.Create(dto)
	}
	created := new(E)
	if cfg.Map != nil {
		if err := cfg.Map(created, dto); err != nil {
			return nil, err
		}
		return created, nil
	}
	if err := CopyMatchingFields(created, &dto); err != nil {
		return nil, err
	}
	return created, nil
}

// ReadSingle loads the entity with key. A missing or filtered row yields a
// nil entity and a NotFound status.
func ReadSingle[E any](ctx context.Context, svc *Service, key int64, opts ...LookupOption) (*E, *status.Status, error) {
	er, err := lookupEntity[E](svc.reg)
	if err != nil {
		_, c := svc.begin(ctx, "read", typeName(typeOf[E]()))
		_, err = c.fail(fmt.Errorf("ReadSingle: %w", err))
		return nil, nil, err
	}
	ctx, c := svc.begin(ctx, "read", er.name, attribute.Int64("crud.key", key))

	st := status.New()
	found, err := findEntity(ctx, svc.pc, er.mapping, key, false, opts)
	if err != nil {
		_, err = c.fail(fmt.Errorf("ReadSingle: %w", err))
		return nil, nil, err
	}
	if found == nil {
		st.AddNotFound(fmt.Sprintf("Sorry, I could not find the %s you were looking for.", er.name))
	}
	st, _ = c.end(st, nil)
	return found, st, nil
}
