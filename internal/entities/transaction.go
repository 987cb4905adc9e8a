package entities

import "time"

// TransactionType is either income or expense.
type TransactionType = CategoryType

const (
	TransactionTypeExpense = CategoryTypeExpense
	TransactionTypeIncome  = CategoryTypeIncome
)

// Transaction is a single income or expense record.
type Transaction struct {
	ID         uint            `json:"id"`
	Amount     Amount          `json:"amount"`
	Type       TransactionType `json:"type"`
	Date       string          `json:"date"`
	Note       string          `json:"note"`
	CategoryID uint            `json:"categoryId"`
	UserID     uint            `json:"userId"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// TransactionInput is the body of POST /transactions.
type TransactionInput struct {
	Amount     Amount          `json:"amount"`
	Type       TransactionType `json:"type"`
	Date       string          `json:"date"`
	Note       string          `json:"note"`
	CategoryID uint            `json:"categoryId"`
}

// TransactionPatch is the body of PUT /transactions/{id}; nil fields are left untouched.
type TransactionPatch struct {
	Amount     *Amount          `json:"amount,omitempty"`
	Type       *TransactionType `json:"type,omitempty"`
	Date       *string          `json:"date,omitempty"`
	Note       *string          `json:"note,omitempty"`
	CategoryID *uint            `json:"categoryId,omitempty"`
}

// Stats is the backend's aggregate over a date range.
type Stats struct {
	TotalIncome  Amount `json:"totalIncome"`
	TotalExpense Amount `json:"totalExpense"`
	Balance      Amount `json:"balance"`
	IncomeCount  int    `json:"incomeCount"`
	ExpenseCount int    `json:"expenseCount"`
}
