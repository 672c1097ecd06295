package book

import (
	"crudkit/internal/crud"
	"crudkit/internal/domain/entity"
	"crudkit/internal/infra/db"
)

// Operation ids of the book DTOs.
const (
	OpUpdatePublishedOn crud.OperationID = "UpdatePublishedOn"
	OpAddPromotion      crud.OperationID = "AddPromotion"
	OpRemovePromotion   crud.OperationID = "RemovePromotion"
)

// Register adds the Book entity and its DTOs to reg.
func Register(reg *crud.Registry) error {
	if err := crud.RegisterEntity(reg, db.BookMapping()); err != nil {
		return err
	}

	if err := crud.RegisterDTO(reg, crud.DTOConfig[ChangePubDateDto, entity.Book]{
		Key: func(d ChangePubDateDto) int64 { return d.BookID },
		Methods: map[crud.OperationID]func(*entity.Book, ChangePubDateDto) error{
			OpUpdatePublishedOn: func(b *entity.Book, d ChangePubDateDto) error {
				b.UpdatePublishedOn(d.PublishedOn)
				return nil
			},
		},
	}); err != nil {
		return err
	}

	if err := crud.RegisterDTO(reg, crud.DTOConfig[AddPromotionDto, entity.Book]{
		Key: func(d AddPromotionDto) int64 { return d.BookID },
		Methods: map[crud.OperationID]func(*entity.Book, AddPromotionDto) error{
			OpAddPromotion: func(b *entity.Book, d AddPromotionDto) error {
				return b.AddPromotion(d.ActualPrice, d.PromotionalText)
			},
		},
	}); err != nil {
		return err
	}

	if err := crud.RegisterDTO(reg, crud.DTOConfig[RemovePromotionDto, entity.Book]{
		Key: func(d RemovePromotionDto) int64 { return d.BookID },
		Methods: map[crud.OperationID]func(*entity.Book, RemovePromotionDto) error{
			OpRemovePromotion: func(b *entity.Book, _ RemovePromotionDto) error {
				return b.RemovePromotion()
			},
		},
	}); err != nil {
		return err
	}

	return crud.RegisterDTO(reg, crud.DTOConfig[CreateBookDto, entity.Book]{
		Key: func(d CreateBookDto) int64 { return d.BookID },
		Create: func(d CreateBookDto) (*entity.Book, error) {
			return &entity.Book{
				Title:       d.Title,
				Description: d.Description,
				PublishedOn: d.PublishedOn,
				Publisher:   d.Publisher,
				Price:       d.Price,
				ActualPrice: d.Price,
				ImageURL:    d.ImageURL,
			}, nil
		},
		SetKey: func(d *CreateBookDto, id int64) { d.BookID = id },
	})
}
