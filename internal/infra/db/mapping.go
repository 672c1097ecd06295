package db

import (
	"crudkit/internal/domain/entity"
	"crudkit/internal/persistence"
)

// BookMapping maps entity.Book onto the books table.
func BookMapping() *persistence.Mapping[entity.Book] {
	return &persistence.Mapping[entity.Book]{
		Name:      "Book",
		Table:     "books",
		KeyColumn: "book_id",
		Columns: []string{
			"title", "description", "published_on", "publisher",
			"price", "actual_price", "promotional_text", "image_url",
		},
		Key:    func(b *entity.Book) int64 { return b.BookID },
		SetKey: func(b *entity.Book, id int64) { b.BookID = id },
		Values: func(b *entity.Book) []any {
			return []any{
				b.Title, b.Description, b.PublishedOn, b.Publisher,
				b.Price, b.ActualPrice, b.PromotionalText, b.ImageURL,
			}
		},
		Scan: func(b *entity.Book) []any {
			return []any{
				&b.BookID, &b.Title, &b.Description, &b.PublishedOn, &b.Publisher,
				&b.Price, &b.ActualPrice, &b.PromotionalText, &b.ImageURL,
			}
		},
	}
}

// SoftDelEntityMapping maps entity.SoftDelEntity onto soft_del_entities.
// Soft-deleted rows are hidden unless the query filter is ignored.
func SoftDelEntityMapping() *persistence.Mapping[entity.SoftDelEntity] {
	return &persistence.Mapping[entity.SoftDelEntity]{
		Table:     "soft_del_entities",
		KeyColumn: "id",
		Columns:   []string{"soft_deleted"},
		Key:       func(e *entity.SoftDelEntity) int64 { return e.ID },
		SetKey:    func(e *entity.SoftDelEntity, id int64) { e.ID = id },
		Values:    func(e *entity.SoftDelEntity) []any { return []any{e.SoftDeleted} },
		Scan:      func(e *entity.SoftDelEntity) []any { return []any{&e.ID, &e.SoftDeleted} },
		QueryFilter: &persistence.Filter{
			Clause: "soft_deleted = ?",
			Args:   []any{false},
		},
	}
}
