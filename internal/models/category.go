package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category is a named bucket with a fixed type. Categories are seeded by
// migrations and never updated once transactions reference them.
type Category struct {
	ID   uint         `gorm:"primaryKey" json:"id"`
	Name string       `gorm:"not null" json:"name"`
	Type CategoryType `gorm:"not null" json:"type"`
}
