package book

import (
	"time"

	"crudkit/internal/domain/entity"
)

// ChangePubDateDto changes the publication date of a book.
type ChangePubDateDto struct {
	BookID      int64
	PublishedOn time.Time
}

// Validate requires a publication date.
func (d ChangePubDateDto) Validate() error {
	if d.PublishedOn.IsZero() {
		return &entity.ValidationError{Field: "PublishedOn", Message: "The PublishedOn field is required."}
	}
	return nil
}

// AddPromotionDto puts a book on promotion.
type AddPromotionDto struct {
	BookID          int64
	ActualPrice     float64
	PromotionalText string
}

// RemovePromotionDto ends a promotion.
type RemovePromotionDto struct {
	BookID int64
}

// CreateBookDto carries the fields of a new book.
type CreateBookDto struct {
	BookID      int64
	Title       string
	Description string
	PublishedOn time.Time
	Publisher   string
	Price       float64
	ImageURL    string
}

// Validate checks the fields that the entity cannot default.
func (d *CreateBookDto) Validate() error {
	var errs entity.ValidationErrors
	if d.BookID != 0 {
		errs.Add("BookID", "The BookID must not be set when creating a book.")
	}
	if d.Price < 0 {
		errs.Add("Price", "The Price field must not be negative.")
	}
	return errs.OrNil()
}
