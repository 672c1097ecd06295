package book

import (
	"context"
	"fmt"
	"time"

	"crudkit/internal/domain/entity"
	"crudkit/internal/infra/db"
	"crudkit/internal/persistence"
)

// Service updates books directly, without the generic dispatcher.
// It is bound to one persistence context.
type Service struct {
	PC *persistence.Context
}

// NewService returns a Service writing through pc.
func NewService(pc *persistence.Context) *Service {
	return &Service{PC: pc}
}

func (s *Service) books() *persistence.Set[entity.Book] {
	return persistence.For(s.PC, db.BookMapping())
}

// Get retrieves a single book by its ID.
// Returns ErrInvalidBookID if the ID is not positive.
// Returns ErrBookNotFound if the book does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Book, error) {
	if id <= 0 {
		return nil, ErrInvalidBookID
	}
	b, err := s.books().Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if b == nil {
		return nil, ErrBookNotFound
	}
	return b, nil
}

// UpdatePublishedOnProperty assigns the field and saves.
func (s *Service) UpdatePublishedOnProperty(ctx context.Context, id int64, publishedOn time.Time) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	b.PublishedOn = publishedOn
	if _, err := s.PC.SaveChanges(ctx); err != nil {
		return fmt.Errorf("update book published_on: %w", err)
	}
	return nil
}

// UpdatePublishedOnMethod calls the domain method and saves.
func (s *Service) UpdatePublishedOnMethod(ctx context.Context, id int64, publishedOn time.Time) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	b.UpdatePublishedOn(publishedOn)
	if _, err := s.PC.SaveChanges(ctx); err != nil {
		return fmt.Errorf("update book published_on: %w", err)
	}
	return nil
}

// AddPromotion applies a promotion and saves. Rejected promotions return
// the entity's validation errors and nothing is written.
func (s *Service) AddPromotion(ctx context.Context, id int64, actualPrice float64, promotionalText string) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := b.AddPromotion(actualPrice, promotionalText); err != nil {
		return err
	}
	if _, err := s.PC.SaveChanges(ctx); err != nil {
		return fmt.Errorf("add promotion: %w", err)
	}
	return nil
}
