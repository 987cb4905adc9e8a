package http

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/fintrack/internal/auth"
	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/services"
)

// recentTransactionsLimit bounds the dashboard's recent activity list.
const recentTransactionsLimit = 5

// DashboardController serves the overview page.
type DashboardController struct {
	pageBase
}

func NewDashboardController(guard config.Guard, sessions *auth.SessionManager, logger *slog.Logger) *DashboardController {
	return &DashboardController{pageBase{guard: guard, sessions: sessions, logger: logger}}
}

// Page shows stats, the category distribution and recent transactions. An
// optional ?period=YYYY-MM narrows everything to one month.
func (dc *DashboardController) Page(c *gin.Context) {
	data := gin.H{"Title": "Dashboard"}

	var filter services.TransactionFilter
	if period := strings.TrimSpace(c.Query("period")); period != "" {
		start, end, err := services.MonthRange(period)
		if err != nil {
			data["Error"] = userMessage(err)
			dc.render(c, http.StatusOK, "dashboard.html", data)
			return
		}
		filter.StartDate, filter.EndDate = start, end
		data["Period"] = period
	}

	svc := auth.CurrentServices(c)
	if svc == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	var (
		stats        *entities.Stats
		categories   []entities.Category
		transactions []entities.Transaction
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		stats, err = svc.Transactions.Stats(ctx, filter.StartDate, filter.EndDate)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = svc.Categories.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = svc.Transactions.List(ctx, filter)
		return err
	})

	if err := g.Wait(); err != nil {
		if dc.sessionExpired(c, err) {
			return
		}
		dc.logger.Warn("failed to load dashboard", "error", err)
		data["Error"] = userMessage(err)
		dc.render(c, http.StatusOK, "dashboard.html", data)
		return
	}

	var expense, income []services.CategoryTotal
	for _, row := range services.SummarizeByCategory(transactions, categories) {
		if row.Type == entities.CategoryTypeIncome {
			income = append(income, row)
		} else {
			expense = append(expense, row)
		}
	}

	data["Stats"] = stats
	data["ExpenseDistribution"] = expense
	data["IncomeDistribution"] = income
	data["Recent"] = recentTransactions(transactions, recentTransactionsLimit)
	data["CategoryNames"] = categoryNames(categories)
	dc.render(c, http.StatusOK, "dashboard.html", data)
}

// recentTransactions returns up to n transactions, newest date first.
func recentTransactions(txs []entities.Transaction, n int) []entities.Transaction {
	sorted := make([]entities.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Date != sorted[b].Date {
			return sorted[a].Date > sorted[b].Date
		}
		return sorted[a].ID > sorted[b].ID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
