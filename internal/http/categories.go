package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/auth"
	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/services"
)

// Notices shown after a category change.
const (
	FlashCategoryCreated = "Category created"
	FlashCategoryUpdated = "Category updated"
	FlashCategoryDeleted = "Category deleted"
)

// CategoryForm echoes submitted values back into a category form. EditID is
// set when the values belong to the edit form of an existing category.
type CategoryForm struct {
	EditID uint
	Name   string
	Type   string
}

// CategoriesController serves the category management page.
type CategoriesController struct {
	pageBase
}

func NewCategoriesController(guard config.Guard, sessions *auth.SessionManager, logger *slog.Logger) *CategoriesController {
	return &CategoriesController{pageBase{guard: guard, sessions: sessions, logger: logger}}
}

func (cc *CategoriesController) listPath() string {
	return cc.guard.DashboardPath + "/categories"
}

// Page shows expense and income categories side by side.
func (cc *CategoriesController) Page(c *gin.Context) {
	cc.renderPage(c, http.StatusOK, gin.H{}, CategoryForm{Type: string(entities.CategoryTypeExpense)})
}

// Create adds a category. A duplicate name is reported inline.
func (cc *CategoriesController) Create(c *gin.Context) {
	svc := auth.CurrentServices(c)
	if svc == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	form := categoryFormFromRequest(c)
	_, err := svc.Categories.Create(c.Request.Context(), entities.CategoryInput{
		Name: form.Name,
		Type: entities.CategoryType(form.Type),
	})
	if err != nil {
		if cc.sessionExpired(c, err) {
			return
		}
		cc.renderPage(c, http.StatusUnprocessableEntity, gin.H{"Error": userMessage(err)}, form)
		return
	}

	cc.flash(c, FlashCategoryCreated)
	c.Redirect(http.StatusSeeOther, cc.listPath())
}

// Update renames or retypes a category.
func (cc *CategoriesController) Update(c *gin.Context) {
	id, ok := cc.idParam(c, cc.listPath())
	if !ok {
		return
	}
	svc := auth.CurrentServices(c)
	if svc == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	form := categoryFormFromRequest(c)
	form.EditID = id
	_, err := svc.Categories.Update(c.Request.Context(), id, entities.CategoryInput{
		Name: form.Name,
		Type: entities.CategoryType(form.Type),
	})
	if err != nil {
		if cc.sessionExpired(c, err) {
			return
		}
		cc.renderPage(c, http.StatusUnprocessableEntity, gin.H{"Error": userMessage(err)}, form)
		return
	}

	cc.flash(c, FlashCategoryUpdated)
	c.Redirect(http.StatusSeeOther, cc.listPath())
}

// Delete removes a category.
func (cc *CategoriesController) Delete(c *gin.Context) {
	id, ok := cc.idParam(c, cc.listPath())
	if !ok {
		return
	}
	svc := auth.CurrentServices(c)
	if svc == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	message, err := svc.Categories.Delete(c.Request.Context(), id)
	if err != nil {
		if cc.sessionExpired(c, err) {
			return
		}
		cc.flashError(c, userMessage(err))
		c.Redirect(http.StatusSeeOther, cc.listPath())
		return
	}

	cc.logger.Debug("category deleted", "id", id, "message", message)
	cc.flash(c, FlashCategoryDeleted)
	c.Redirect(http.StatusSeeOther, cc.listPath())
}

func (cc *CategoriesController) renderPage(c *gin.Context, status int, extra gin.H, form CategoryForm) {
	svc := auth.CurrentServices(c)
	if svc == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	categories, err := svc.Categories.List(c.Request.Context())
	if err != nil {
		if cc.sessionExpired(c, err) {
			return
		}
		cc.logger.Warn("failed to load categories", "error", err)
		if extra["Error"] == nil {
			extra["Error"] = userMessage(err)
		}
	}

	expense, income := services.SplitCategories(categories)
	extra["Title"] = "Categories"
	extra["ExpenseCategories"] = expense
	extra["IncomeCategories"] = income
	extra["Form"] = form
	cc.render(c, status, "categories.html", extra)
}

func categoryFormFromRequest(c *gin.Context) CategoryForm {
	return CategoryForm{
		Name: strings.TrimSpace(c.PostForm("name")),
		Type: c.PostForm("type"),
	}
}
