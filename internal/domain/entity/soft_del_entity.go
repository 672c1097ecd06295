package entity

// SoftDelEntity is a row that stays in storage after a soft delete but is
// hidden from normal queries by its set's query filter.
type SoftDelEntity struct {
	ID          int64
	SoftDeleted bool
}

// SoftDelete hides the entity from filtered queries.
func (e *SoftDelEntity) SoftDelete() {
	e.SoftDeleted = true
}
