package services

import (
	"sort"
	"strings"

	"github.com/mrlokans/fintrack/internal/entities"
)

// Summary is a client-side aggregate over a list of transactions.
type Summary struct {
	TotalIncome  entities.Amount
	TotalExpense entities.Amount
	Balance      entities.Amount
	IncomeCount  int
	ExpenseCount int
}

// Summarize totals income and expense in a single pass.
func Summarize(txs []entities.Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Type {
		case entities.TransactionTypeIncome:
			s.TotalIncome += tx.Amount
			s.IncomeCount++
		case entities.TransactionTypeExpense:
			s.TotalExpense += tx.Amount
			s.ExpenseCount++
		}
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	return s
}

// CategoryTotal is one row of a category distribution table.
type CategoryTotal struct {
	CategoryID uint
	Name       string
	Type       entities.CategoryType
	Total      entities.Amount
	Count      int
	// Percent of all transactions of the same type, 0-100.
	Percent float64
}

// SummarizeByCategory groups transactions per category, largest total first.
// Transactions whose category is unknown are grouped under "Uncategorized".
func SummarizeByCategory(txs []entities.Transaction, categories []entities.Category) []CategoryTotal {
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	type key struct {
		id  uint
		typ entities.CategoryType
	}
	index := map[key]int{}
	typeTotals := map[entities.CategoryType]entities.Amount{}
	var rows []CategoryTotal

	for _, tx := range txs {
		k := key{tx.CategoryID, tx.Type}
		i, ok := index[k]
		if !ok {
			name, known := names[tx.CategoryID]
			if !known {
				name = "Uncategorized"
			}
			rows = append(rows, CategoryTotal{CategoryID: tx.CategoryID, Name: name, Type: tx.Type})
			i = len(rows) - 1
			index[k] = i
		}
		rows[i].Total += tx.Amount
		rows[i].Count++
		typeTotals[tx.Type] += tx.Amount
	}

	for i := range rows {
		if total := typeTotals[rows[i].Type]; total > 0 {
			rows[i].Percent = float64(rows[i].Total) * 100 / float64(total)
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Total != rows[b].Total {
			return rows[a].Total > rows[b].Total
		}
		return rows[a].Name < rows[b].Name
	})
	return rows
}

// Transaction list tabs.
const (
	FilterAll     = "all"
	FilterIncome  = "income"
	FilterExpense = "expense"
)

// FilterTransactions keeps transactions of the given tab ("all", "income",
// "expense"; anything else means all) whose note or category name contains
// query, ignoring case.
func FilterTransactions(txs []entities.Transaction, tab, query string, categories []entities.Category) []entities.Transaction {
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = strings.ToLower(c.Name)
	}
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]entities.Transaction, 0, len(txs))
	for _, tx := range txs {
		if (tab == FilterIncome || tab == FilterExpense) && string(tx.Type) != tab {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(tx.Note), query) &&
			!strings.Contains(names[tx.CategoryID], query) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
