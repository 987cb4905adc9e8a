package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/fintrack/internal/entities"
)

func tx(id uint, typ entities.TransactionType, cents entities.Amount, categoryID uint, note string) entities.Transaction {
	return entities.Transaction{ID: id, Type: typ, Amount: cents, CategoryID: categoryID, Note: note}
}

func TestSummarize(t *testing.T) {
	txs := []entities.Transaction{
		tx(1, entities.TransactionTypeIncome, 10000, 1, ""),
		tx(2, entities.TransactionTypeExpense, 4000, 2, ""),
		tx(3, entities.TransactionTypeIncome, 500, 1, ""),
	}

	s := Summarize(txs)

	assert.Equal(t, entities.Amount(10500), s.TotalIncome)
	assert.Equal(t, entities.Amount(4000), s.TotalExpense)
	assert.Equal(t, entities.Amount(6500), s.Balance)
	assert.Equal(t, 2, s.IncomeCount)
	assert.Equal(t, 1, s.ExpenseCount)
	assert.Equal(t, "105.00", s.TotalIncome.String())
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarizeByCategory(t *testing.T) {
	categories := []entities.Category{
		{ID: 1, Name: "Food", Type: entities.CategoryTypeExpense},
		{ID: 2, Name: "Rent", Type: entities.CategoryTypeExpense},
		{ID: 3, Name: "Salary", Type: entities.CategoryTypeIncome},
	}
	txs := []entities.Transaction{
		tx(1, entities.TransactionTypeExpense, 2500, 1, ""),
		tx(2, entities.TransactionTypeExpense, 7500, 2, ""),
		tx(3, entities.TransactionTypeIncome, 100000, 3, ""),
		tx(4, entities.TransactionTypeExpense, 0, 99, ""),
	}

	rows := SummarizeByCategory(txs, categories)

	require.Len(t, rows, 4)
	assert.Equal(t, "Salary", rows[0].Name)
	assert.InDelta(t, 100.0, rows[0].Percent, 0.001)
	assert.Equal(t, "Rent", rows[1].Name)
	assert.InDelta(t, 75.0, rows[1].Percent, 0.001)
	assert.Equal(t, "Food", rows[2].Name)
	assert.InDelta(t, 25.0, rows[2].Percent, 0.001)
	assert.Equal(t, "Uncategorized", rows[3].Name)
}

func TestFilterTransactions(t *testing.T) {
	categories := []entities.Category{
		{ID: 1, Name: "Groceries", Type: entities.CategoryTypeExpense},
		{ID: 2, Name: "Salary", Type: entities.CategoryTypeIncome},
	}
	txs := []entities.Transaction{
		tx(1, entities.TransactionTypeExpense, 1000, 1, "Weekly shop"),
		tx(2, entities.TransactionTypeIncome, 500000, 2, "March pay"),
		tx(3, entities.TransactionTypeExpense, 300, 1, "Coffee"),
	}

	ids := func(list []entities.Transaction) []uint {
		out := []uint{}
		for _, item := range list {
			out = append(out, item.ID)
		}
		return out
	}

	assert.Equal(t, []uint{1, 2, 3}, ids(FilterTransactions(txs, FilterAll, "", categories)))
	assert.Equal(t, []uint{2}, ids(FilterTransactions(txs, FilterIncome, "", categories)))
	assert.Equal(t, []uint{1, 3}, ids(FilterTransactions(txs, FilterExpense, "", categories)))
	assert.Equal(t, []uint{1, 3}, ids(FilterTransactions(txs, FilterAll, "GROCER", categories)))
	assert.Equal(t, []uint{3}, ids(FilterTransactions(txs, "", " coffee ", categories)))
	assert.Equal(t, []uint{}, ids(FilterTransactions(txs, FilterIncome, "coffee", categories)))
}
