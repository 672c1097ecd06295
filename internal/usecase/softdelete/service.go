// Package softdelete hides entities with a soft delete and purges them for
// good once they are hidden.
package softdelete

import (
	"context"

	"crudkit/internal/crud"
	"crudkit/internal/domain/entity"
	"crudkit/internal/infra/db"
	"crudkit/internal/persistence"
	"crudkit/internal/status"
)

// OpSoftDelete is the operation id of SoftDeleteDto.
const OpSoftDelete crud.OperationID = "SoftDelete"

// NotSoftDeletedMessage is reported when a purge targets a visible entity.
const NotSoftDeletedMessage = "Can't delete if not already soft deleted."

// SoftDeleteDto identifies the entity to hide.
type SoftDeleteDto struct {
	ID int64
}

// Register adds SoftDelEntity and SoftDeleteDto to reg.
func Register(reg *crud.Registry) error {
	if err := crud.RegisterEntity(reg, db.SoftDelEntityMapping()); err != nil {
		return err
	}
	return crud.RegisterDTO(reg, crud.DTOConfig[SoftDeleteDto, entity.SoftDelEntity]{
		Key: func(d SoftDeleteDto) int64 { return d.ID },
		Methods: map[crud.OperationID]func(*entity.SoftDelEntity, SoftDeleteDto) error{
			OpSoftDelete: func(e *entity.SoftDelEntity, _ SoftDeleteDto) error {
				e.SoftDelete()
				return nil
			},
		},
	})
}

// RequireSoftDeleted rejects the purge of an entity that is still visible.
func RequireSoftDeleted(_ *persistence.Context, e *entity.SoftDelEntity) *status.Status {
	st := status.New()
	if !e.SoftDeleted {
		st.AddError(NotSoftDeletedMessage)
	}
	return st
}

// Service runs soft-delete flows through the generic dispatcher.
type Service struct {
	CRUD *crud.Service
}

// NewService returns a Service dispatching through svc.
func NewService(svc *crud.Service) *Service {
	return &Service{CRUD: svc}
}

// SoftDelete hides the visible entity with id.
func (s *Service) SoftDelete(ctx context.Context, id int64) (*status.Status, error) {
	return crud.UpdateAndSave(ctx, s.CRUD, SoftDeleteDto{ID: id}, crud.CallOperation(OpSoftDelete))
}

// Purge removes a soft-deleted entity from storage.
func (s *Service) Purge(ctx context.Context, id int64) (*status.Status, error) {
	return crud.DeleteWithActionAndSave(ctx, s.CRUD, RequireSoftDeleted, id)
}

// Delete removes a visible entity from storage.
func (s *Service) Delete(ctx context.Context, id int64) (*status.Status, error) {
	return crud.DeleteAndSave[entity.SoftDelEntity](ctx, s.CRUD, id)
}
