package http

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/mrlokans/fintrack/internal/auth"
	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/database/reports"
	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/services"
	"github.com/mrlokans/fintrack/internal/utils"
)

// reportHistoryLimit is how many saved reports the AI page lists.
const reportHistoryLimit = 10

const (
	FlashReportDeleted   = "Report deleted"
	messageReportMissing = "Report not found"
)

// ReportStore keeps generated suggestions per user.
type ReportStore interface {
	Save(ctx context.Context, report *entities.AIReport) error
	ListForUser(ctx context.Context, userID uint, limit int) ([]entities.AIReport, error)
	GetForUser(ctx context.Context, id, userID uint) (*entities.AIReport, error)
	DeleteForUser(ctx context.Context, id, userID uint) error
}

// Raw HTML in the backend's markdown is dropped; goldmark only emits it
// with html.WithUnsafe.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// AIController serves the AI suggestions page and the saved report history.
type AIController struct {
	pageBase
	reports ReportStore
	now     func() time.Time
}

// NewAIController creates the controller. A nil store disables history.
func NewAIController(guard config.Guard, sessions *auth.SessionManager, store ReportStore, logger *slog.Logger) *AIController {
	return &AIController{
		pageBase: pageBase{guard: guard, sessions: sessions, logger: logger},
		reports:  store,
		now:      time.Now,
	}
}

func (ac *AIController) pagePath() string {
	return ac.guard.DashboardPath + "/ai"
}

// Page renders the period form, preselecting ?period= or the current month.
func (ac *AIController) Page(c *gin.Context) {
	period := strings.TrimSpace(c.Query("period"))
	if period == "" {
		period = ac.now().Format(services.PeriodLayout)
	}
	ac.renderPage(c, http.StatusOK, gin.H{"Period": period})
}

// Generate asks the backend for suggestions for the submitted period and
// keeps a copy in the history.
func (ac *AIController) Generate(c *gin.Context) {
	svc := auth.CurrentServices(c)
	if svc == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	period := strings.TrimSpace(c.PostForm("period"))
	data := gin.H{"Period": period}

	label, err := services.FormatPeriod(period)
	if err != nil {
		data["Error"] = userMessage(err)
		ac.renderPage(c, http.StatusUnprocessableEntity, data)
		return
	}

	suggestions, err := svc.AI.Suggestions(c.Request.Context(), label)
	if err != nil {
		if ac.sessionExpired(c, err) {
			return
		}
		ac.logger.Warn("failed to get suggestions", "period", label, "error", err)
		data["Error"] = userMessage(err)
		ac.renderPage(c, http.StatusOK, data)
		return
	}

	rendered, err := renderMarkdown(suggestions)
	if err != nil {
		ac.logger.Error("failed to render suggestions", "error", err)
		data["Error"] = messageUnexpected
		ac.renderPage(c, http.StatusOK, data)
		return
	}
	data["PeriodLabel"] = label
	data["Suggestions"] = rendered

	if !ac.saveReport(c, label, suggestions) {
		return
	}
	ac.renderPage(c, http.StatusOK, data)
}

// Report shows one saved report.
func (ac *AIController) Report(c *gin.Context) {
	report, ok := ac.loadReport(c)
	if !ok {
		return
	}

	rendered, err := renderMarkdown(report.Suggestions)
	if err != nil {
		ac.logger.Error("failed to render report", "id", report.ID, "error", err)
		rendered = template.HTML(template.HTMLEscapeString(report.Suggestions))
	}
	ac.renderPage(c, http.StatusOK, gin.H{
		"Period":      ac.now().Format(services.PeriodLayout),
		"PeriodLabel": report.Period,
		"Suggestions": rendered,
		"Report":      report,
	})
}

// DownloadReport sends a saved report as a markdown file.
func (ac *AIController) DownloadReport(c *gin.Context) {
	report, ok := ac.loadReport(c)
	if !ok {
		return
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": utils.ReportFilename(report.Period),
	})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Suggestions))
}

// loadReport fetches the :id report of the current user. On false the
// response has been written.
func (ac *AIController) loadReport(c *gin.Context) (*entities.AIReport, bool) {
	id, ok := ac.idParam(c, ac.pagePath())
	if !ok {
		return nil, false
	}
	user, ok := ac.currentUser(c)
	if !ok {
		return nil, false
	}
	if user == nil || ac.reports == nil {
		ac.flashError(c, messageReportMissing)
		c.Redirect(http.StatusSeeOther, ac.pagePath())
		return nil, false
	}

	report, err := ac.reports.GetForUser(c.Request.Context(), id, user.ID)
	if err != nil {
		if !errors.Is(err, reports.ErrNotFound) {
			ac.logger.Error("failed to load report", "id", id, "error", err)
		}
		ac.flashError(c, messageReportMissing)
		c.Redirect(http.StatusSeeOther, ac.pagePath())
		return nil, false
	}
	return report, true
}

// DeleteReport removes a saved report owned by the current user.
func (ac *AIController) DeleteReport(c *gin.Context) {
	id, ok := ac.idParam(c, ac.pagePath())
	if !ok {
		return
	}
	user, ok := ac.currentUser(c)
	if !ok {
		return
	}

	switch {
	case user == nil || ac.reports == nil:
		ac.flashError(c, messageReportMissing)
	default:
		err := ac.reports.DeleteForUser(c.Request.Context(), id, user.ID)
		switch {
		case errors.Is(err, reports.ErrNotFound):
			ac.flashError(c, messageReportMissing)
		case err != nil:
			ac.logger.Error("failed to delete report", "id", id, "error", err)
			ac.flashError(c, messageUnexpected)
		default:
			ac.flash(c, FlashReportDeleted)
		}
	}
	c.Redirect(http.StatusSeeOther, ac.pagePath())
}

// saveReport returns false when the response was already written.
func (ac *AIController) saveReport(c *gin.Context, label, suggestions string) bool {
	if ac.reports == nil {
		return true
	}
	user, ok := ac.currentUser(c)
	if !ok {
		return false
	}
	if user == nil {
		return true
	}
	report := &entities.AIReport{
		UserID:      user.ID,
		Period:      label,
		Suggestions: suggestions,
	}
	if err := ac.reports.Save(c.Request.Context(), report); err != nil {
		ac.logger.Warn("failed to save report", "error", err)
	}
	return true
}

func (ac *AIController) renderPage(c *gin.Context, status int, data gin.H) {
	if _, set := data["Reports"]; !set && ac.reports != nil {
		if user := auth.CurrentUser(c); user != nil {
			history, err := ac.reports.ListForUser(c.Request.Context(), user.ID, reportHistoryLimit)
			if err != nil {
				ac.logger.Warn("failed to list reports", "error", err)
			}
			data["Reports"] = history
		}
	}
	data["Title"] = "AI Suggestions"
	ac.render(c, status, "ai.html", data)
}

