package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/auth"
	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/entities"
)

// SessionKeyAuditUser remembers the last restored user id in the UI session
// so form posts, which skip the profile fetch, can be attributed.
const SessionKeyAuditUser = "audit_user_id"

const activityPageLimit = 50

// AuditRecorder is the part of the audit service the router uses.
type AuditRecorder interface {
	LogAsync(event *entities.AuditEvent)
	Events(ctx context.Context, userID uint, limit int) ([]entities.AuditEvent, error)
}

type auditAction struct {
	eventType entities.AuditEventType
	action    string
}

// auditedRoutes maps route patterns of state-changing POSTs to the action
// they record.
func auditedRoutes(guard config.Guard) map[string]auditAction {
	d := guard.DashboardPath
	return map[string]auditAction{
		guard.LoginPath:    {entities.AuditEventAuth, "login"},
		guard.RegisterPath: {entities.AuditEventAuth, "register"},
		"/logout":          {entities.AuditEventAuth, "logout"},

		d + "/transactions":            {entities.AuditEventTransaction, "transaction_create"},
		d + "/transactions/:id":        {entities.AuditEventTransaction, "transaction_update"},
		d + "/transactions/:id/delete": {entities.AuditEventTransaction, "transaction_delete"},

		d + "/categories":            {entities.AuditEventCategory, "category_create"},
		d + "/categories/:id":        {entities.AuditEventCategory, "category_update"},
		d + "/categories/:id/delete": {entities.AuditEventCategory, "category_delete"},

		d + "/ai":                    {entities.AuditEventAIReport, "ai_report_generate"},
		d + "/ai/reports/:id/delete": {entities.AuditEventAIReport, "ai_report_delete"},
	}
}

// AuditTrail records every POST to an audited route once its handler has
// run. It must sit after the session and bootstrap middleware.
func AuditTrail(recorder AuditRecorder, sessions *auth.SessionManager, guard config.Guard) gin.HandlerFunc {
	routes := auditedRoutes(guard)
	logoutPath := "/logout"

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var remembered uint
		if sessions != nil {
			remembered = uint(sessions.GetInt(ctx, SessionKeyAuditUser))
			if user := auth.CurrentUser(c); user != nil && user.ID != remembered {
				sessions.Put(ctx, SessionKeyAuditUser, int(user.ID))
			}
		}

		entry, audited := routes[c.FullPath()]
		if c.Request.Method != http.MethodPost || !audited {
			c.Next()
			return
		}
		// session writes after the handler would miss the cookie
		if sessions != nil && c.FullPath() == logoutPath {
			sessions.Remove(ctx, SessionKeyAuditUser)
		}

		c.Next()

		userID := remembered
		failed := c.Writer.Status() >= http.StatusBadRequest
		if store := auth.CurrentStore(c); store != nil {
			state := store.Snapshot()
			if state.User != nil {
				userID = state.User.ID
			}
			failed = failed || state.Error != ""
		}
		if sessions != nil && sessions.GetString(ctx, auth.SessionKeyFlashError) != "" {
			failed = true
		}

		status := entities.AuditStatusSuccess
		if failed {
			status = entities.AuditStatusFailed
		}
		recorder.LogAsync(&entities.AuditEvent{
			UserID:     userID,
			EventType:  entry.eventType,
			Action:     entry.action,
			EntityID:   entityID(c),
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Status:     status,
		})
	}
}

func entityID(c *gin.Context) *uint {
	id := parseOptionalID(c.Param("id"))
	if id == 0 {
		return nil
	}
	return &id
}

// ActivityController shows the signed-in user's audit trail.
type ActivityController struct {
	pageBase
	recorder AuditRecorder
}

func NewActivityController(guard config.Guard, sessions *auth.SessionManager, recorder AuditRecorder, logger *slog.Logger) *ActivityController {
	return &ActivityController{
		pageBase: pageBase{guard: guard, sessions: sessions, logger: logger},
		recorder: recorder,
	}
}

// Page lists the most recent events.
func (ac *ActivityController) Page(c *gin.Context) {
	user, ok := ac.currentUser(c)
	if !ok {
		return
	}
	data := gin.H{"Title": "Activity"}
	if user != nil {
		events, err := ac.recorder.Events(c.Request.Context(), user.ID, activityPageLimit)
		if err != nil {
			ac.logger.Error("failed to load activity", "error", err)
			data["Error"] = messageUnexpected
		}
		data["Events"] = events
	}
	ac.render(c, http.StatusOK, "activity.html", data)
}
