package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/fintrack/internal/auth"
	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/services"
)

// Notices shown after a transaction change.
const (
	FlashTransactionAdded   = "Transaction added"
	FlashTransactionUpdated = "Transaction updated"
	FlashTransactionDeleted = "Transaction deleted"
)

// TransactionForm echoes submitted values back into the create form.
type TransactionForm struct {
	Amount     string
	Type       string
	Date       string
	Note       string
	CategoryID uint
}

// TransactionsController serves the transaction list and its forms.
type TransactionsController struct {
	pageBase
}

func NewTransactionsController(guard config.Guard, sessions *auth.SessionManager, logger *slog.Logger) *TransactionsController {
	return &TransactionsController{pageBase{guard: guard, sessions: sessions, logger: logger}}
}

func (tc *TransactionsController) listPath() string {
	return tc.guard.DashboardPath + "/transactions"
}

// Page lists transactions filtered by ?type= and ?q=.
func (tc *TransactionsController) Page(c *gin.Context) {
	tc.renderPage(c, http.StatusOK, gin.H{}, TransactionForm{
		Type: string(entities.TransactionTypeExpense),
	})
}

// Create handles the new-transaction form. Validation and backend errors
// re-render the page with the form values kept.
func (tc *TransactionsController) Create(c *gin.Context) {
	svc := auth.CurrentServices(c)
	if svc == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	form := TransactionForm{
		Amount:     strings.TrimSpace(c.PostForm("amount")),
		Type:       c.PostForm("type"),
		Date:       strings.TrimSpace(c.PostForm("date")),
		Note:       strings.TrimSpace(c.PostForm("note")),
		CategoryID: parseOptionalID(c.PostForm("category_id")),
	}

	amount, err := services.ParseAmount(form.Amount)
	if err == nil {
		_, err = svc.Transactions.Create(c.Request.Context(), entities.TransactionInput{
			Amount:     amount,
			Type:       entities.TransactionType(form.Type),
			Date:       form.Date,
			Note:       form.Note,
			CategoryID: form.CategoryID,
		})
	}
	if err != nil {
		if tc.sessionExpired(c, err) {
			return
		}
		tc.renderPage(c, http.StatusUnprocessableEntity, gin.H{"Error": userMessage(err)}, form)
		return
	}

	tc.flash(c, FlashTransactionAdded)
	c.Redirect(http.StatusSeeOther, tc.listPath())
}

// Update applies the fields present in the edit form.
func (tc *TransactionsController) Update(c *gin.Context) {
	id, ok := tc.idParam(c, tc.listPath())
	if !ok {
		return
	}
	svc := auth.CurrentServices(c)
	if svc == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	patch, err := transactionPatchFromForm(c)
	if err == nil {
		_, err = svc.Transactions.Update(c.Request.Context(), id, patch)
	}
	if err != nil {
		if tc.sessionExpired(c, err) {
			return
		}
		tc.flashError(c, userMessage(err))
	} else {
		tc.flash(c, FlashTransactionUpdated)
	}
	c.Redirect(http.StatusSeeOther, tc.listPath())
}

// Delete removes a transaction.
func (tc *TransactionsController) Delete(c *gin.Context) {
	id, ok := tc.idParam(c, tc.listPath())
	if !ok {
		return
	}
	svc := auth.CurrentServices(c)
	if svc == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if err := svc.Transactions.Delete(c.Request.Context(), id); err != nil {
		if tc.sessionExpired(c, err) {
			return
		}
		tc.flashError(c, userMessage(err))
	} else {
		tc.flash(c, FlashTransactionDeleted)
	}
	c.Redirect(http.StatusSeeOther, tc.listPath())
}

// renderPage loads transactions and categories, applies the list filters
// and renders. extra carries an inline error when re-rendering a form.
func (tc *TransactionsController) renderPage(c *gin.Context, status int, extra gin.H, form TransactionForm) {
	svc := auth.CurrentServices(c)
	if svc == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	tab := c.DefaultQuery("type", services.FilterAll)
	query := c.Query("q")

	transactions, categories, err := loadTransactionsAndCategories(c.Request.Context(), svc)
	if err != nil {
		if tc.sessionExpired(c, err) {
			return
		}
		tc.logger.Warn("failed to load transactions", "error", err)
		if extra["Error"] == nil {
			extra["Error"] = userMessage(err)
		}
	}

	filtered := services.FilterTransactions(transactions, tab, query, categories)
	expense, income := services.SplitCategories(categories)

	extra["Title"] = "Transactions"
	extra["Tab"] = tab
	extra["Query"] = query
	extra["Transactions"] = filtered
	extra["Summary"] = services.Summarize(filtered)
	extra["ExpenseCategories"] = expense
	extra["IncomeCategories"] = income
	extra["CategoryNames"] = categoryNames(categories)
	extra["Form"] = form
	tc.render(c, status, "transactions.html", extra)
}

func loadTransactionsAndCategories(ctx context.Context, svc *services.Services) ([]entities.Transaction, []entities.Category, error) {
	var (
		transactions []entities.Transaction
		categories   []entities.Category
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = svc.Transactions.List(ctx, services.TransactionFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = svc.Categories.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return transactions, categories, nil
}

// transactionPatchFromForm sets only the fields submitted with a value.
func transactionPatchFromForm(c *gin.Context) (entities.TransactionPatch, error) {
	var patch entities.TransactionPatch

	if raw := strings.TrimSpace(c.PostForm("amount")); raw != "" {
		amount, err := services.ParseAmount(raw)
		if err != nil {
			return patch, err
		}
		patch.Amount = &amount
	}
	if raw := c.PostForm("type"); raw != "" {
		t := entities.TransactionType(raw)
		patch.Type = &t
	}
	if raw := strings.TrimSpace(c.PostForm("date")); raw != "" {
		patch.Date = &raw
	}
	if note, ok := c.GetPostForm("note"); ok {
		note = strings.TrimSpace(note)
		patch.Note = &note
	}
	if raw := c.PostForm("category_id"); raw != "" {
		id := parseOptionalID(raw)
		patch.CategoryID = &id
	}
	return patch, nil
}
