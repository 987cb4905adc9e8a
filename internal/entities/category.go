package entities

import "time"

// CategoryType separates expense categories from income categories.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeExpense || t == CategoryTypeIncome
}

// Category groups transactions of one type.
type Category struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Type        CategoryType `json:"type"`
	TotalAmount Amount       `json:"totalAmount"`
	UserID      uint         `json:"userId,omitempty"`
	CreatedAt   *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time   `json:"updatedAt,omitempty"`
}

// CategoryInput is the body for creating or updating a category.
type CategoryInput struct {
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}
