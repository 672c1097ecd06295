package crud

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"crudkit/internal/persistence"
	"crudkit/internal/status"
)

// DTOConfig binds a DTO type D to its entity type E.
//
// Key is required. Map replaces the default CopyMatchingFields for
// UseFieldMapping. Methods is the operation table consulted by
// CallOperation. Create builds a new entity for CreateAndSave, and SetKey
// copies the generated key back onto the DTO.
type DTOConfig[D, E any] struct {
	Key     func(D) int64
	Map     func(dst *E, src D) error
	Methods map[OperationID]func(*E, D) error
	Create  func(D) (*E, error)
	SetKey  func(*D, int64)
}

type entityRegistration[E any] struct {
	name    string
	mapping *persistence.Mapping[E]
}

type dtoRegistration[D any] struct {
	name       string
	entityName string
	update     func(ctx context.Context, svc *Service, dto D, d Directive) (*status.Status, error)
	create     func(ctx context.Context, svc *Service, dto *D) (*status.Status, error)
}

// Registry holds entity and DTO registrations. Register everything at
// startup; lookups are safe for concurrent use afterwards.
type Registry struct {
	mu       sync.RWMutex
	entities map[reflect.Type]any
	dtos     map[reflect.Type]any
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[reflect.Type]any),
		dtos:     make(map[reflect.Type]any),
	}
}

// RegisterEntity registers the mapping of E. When the mapping has no Name,
// the display name is derived from the Go type name.
func RegisterEntity[E any](reg *Registry, m *persistence.Mapping[E]) error {
	t := typeOf[E]()
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: entity %s: %v", ErrConfiguration, t, err)
	}
	name := m.Name
	if name == "" {
		name = displayName(typeName(t))
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.entities[t]; ok {
		return fmt.Errorf("%w: entity %s", ErrDuplicateRegistration, t)
	}
	reg.entities[t] = &entityRegistration[E]{name: name, mapping: m}
	return nil
}

// RegisterDTO registers D as a DTO of the already registered entity E.
func RegisterDTO[D, E any](reg *Registry, cfg DTOConfig[D, E]) error {
	dt := typeOf[D]()
	if cfg.Key == nil {
		return fmt.Errorf("%w: dto %s: Key func is required", ErrConfiguration, dt)
	}
	er, err := lookupEntity[E](reg)
	if err != nil {
		return fmt.Errorf("dto %s: %w", dt, err)
	}
	for id, fn := range cfg.Methods {
		if fn == nil {
			return fmt.Errorf("%w: dto %s: operation %q has no function", ErrConfiguration, dt, id)
		}
	}

	dr := &dtoRegistration[D]{
		name:       typeName(dt),
		entityName: er.name,
	}
	dr.update = func(ctx context.Context, svc *Service, dto D, d Directive) (*status.Status, error) {
		return updateEntity(ctx, svc, er, dr, cfg, dto, d)
	}
	dr.create = func(ctx context.Context, svc *Service, dto *D) (*status.Status, error) {
		return createEntity(ctx, svc, er, cfg, dto)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.dtos[dt]; ok {
		return fmt.Errorf("%w: dto %s", ErrDuplicateRegistration, dt)
	}
	reg.dtos[dt] = dr
	return nil
}

func lookupEntity[E any](reg *Registry) (*entityRegistration[E], error) {
	t := typeOf[E]()
	reg.mu.RLock()
	v, ok := reg.entities[t]
	reg.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: entity %s", ErrNotRegistered, t)
	}
	return v.(*entityRegistration[E]), nil
}

func lookupDTO[D any](reg *Registry) (*dtoRegistration[D], error) {
	t := typeOf[D]()
	reg.mu.RLock()
	v, ok := reg.dtos[t]
	reg.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: dto %s", ErrNotRegistered, t)
	}
	return v.(*dtoRegistration[D]), nil
}

// EntityName returns the display name registered for E.
func EntityName[E any](reg *Registry) (string, error) {
	er, err := lookupEntity[E](reg)
	if err != nil {
		return "", err
	}
	return er.name, nil
}
