package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/auth"
)

// AuthTemplateData holds authentication info for templates.
type AuthTemplateData struct {
	LoggedIn  bool   // Whether the request's session store is authenticated
	UserName  string // Current user's display name (empty if not logged in)
	Email     string
	CSRFToken string // CSRF token for forms (empty when CSRF is disabled)
	CSRFField string
}

// GetAuthTemplateData builds the template auth data from the request's session store.
func GetAuthTemplateData(c *gin.Context) AuthTemplateData {
	data := AuthTemplateData{
		CSRFToken: auth.GetCSRFToken(c),
		CSRFField: auth.CSRFFormField,
	}
	if store := auth.CurrentStore(c); store != nil {
		state := store.Snapshot()
		data.LoggedIn = state.IsAuthenticated
		if state.User != nil {
			data.UserName = state.User.Name
			data.Email = state.User.Email
		}
	}
	return data
}

// pageData is the layout data shared by every page: auth info, the current
// path for navigation and pending flash messages.
func pageData(c *gin.Context, sessions *auth.SessionManager) gin.H {
	data := gin.H{
		"Auth": GetAuthTemplateData(c),
		"Path": c.Request.URL.Path,
	}
	if sessions != nil {
		notice, errMsg := sessions.PopFlash(c.Request.Context())
		data["Flash"] = notice
		data["Error"] = errMsg
	}
	return data
}
