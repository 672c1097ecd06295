// Package entity defines the core domain entities and validation logic for the application.
// It contains the persisted business objects such as Book and SoftDelEntity, along with
// their validation rules, domain methods and domain-specific errors.
package entity

import (
	"time"
)

const (
	maxTitleLength     = 256
	maxPublisherLength = 64
)

// Book represents a persisted book.
// PublishedOn, ActualPrice and PromotionalText are meant to change only
// through the domain methods below; Title and Description may be mapped directly.
type Book struct {
	BookID          int64
	Title           string
	Description     string
	PublishedOn     time.Time
	Publisher       string
	Price           float64
	ActualPrice     float64
	PromotionalText string
	ImageURL        string
}

// UpdatePublishedOn changes the publication date.
func (b *Book) UpdatePublishedOn(publishedOn time.Time) {
	b.PublishedOn = publishedOn
}

// AddPromotion sets a discounted price and the text shown alongside it.
// The book is left unchanged when the promotion is rejected.
func (b *Book) AddPromotion(actualPrice float64, promotionalText string) error {
	var errs ValidationErrors
	if promotionalText == "" {
		errs.Add("PromotionalText", "You must provide some text to go with the promotion.")
	}
	if actualPrice < 0 {
		errs.Add("ActualPrice", "The promotional price cannot be negative.")
	}
	if len(errs) > 0 {
		return errs
	}

	b.ActualPrice = actualPrice
	b.PromotionalText = promotionalText
	return nil
}

// RemovePromotion restores the list price. It fails when no promotion is active.
func (b *Book) RemovePromotion() error {
	if !b.HasPromotion() {
		return &ValidationError{Field: "PromotionalText", Message: "This book has no promotion to remove."}
	}
	b.ActualPrice = b.Price
	b.PromotionalText = ""
	return nil
}

// HasPromotion reports whether a promotion is active.
func (b *Book) HasPromotion() bool {
	return b.PromotionalText != ""
}

// Validate checks the invariants that must hold before the book is saved.
func (b *Book) Validate() error {
	var errs ValidationErrors

	if err := ValidateRequired("Title", b.Title); err != nil {
		errs = append(errs, err.(*ValidationError))
	} else if err := ValidateMaxLength("Title", b.Title, maxTitleLength); err != nil {
		errs = append(errs, err.(*ValidationError))
	}
	if err := ValidateMaxLength("Publisher", b.Publisher, maxPublisherLength); err != nil {
		errs = append(errs, err.(*ValidationError))
	}
	if b.PublishedOn.IsZero() {
		errs.Add("PublishedOn", "The PublishedOn field is required.")
	}
	if b.Price < 0 {
		errs.Add("Price", "The Price field must not be negative.")
	}
	if b.ActualPrice < 0 {
		errs.Add("ActualPrice", "The ActualPrice field must not be negative.")
	}
	if b.ImageURL != "" {
		if err := ValidateURL("ImageURL", b.ImageURL); err != nil {
			errs = append(errs, err.(*ValidationError))
		}
	}

	return errs.OrNil()
}
