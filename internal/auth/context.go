package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/services"
	"github.com/mrlokans/fintrack/internal/session"
)

// Gin context keys set by Bootstrap.
const (
	ContextKeyStore    = "session_store"
	ContextKeyServices = "session_services"
	ContextKeyRelay    = "session_relay"
)

// CurrentStore returns the request's session store, or nil when Bootstrap did not run.
func CurrentStore(c *gin.Context) *session.Store {
	if v, exists := c.Get(ContextKeyStore); exists {
		if store, ok := v.(*session.Store); ok {
			return store
		}
	}
	return nil
}

// CurrentServices returns the backend services bound to the request's credential.
func CurrentServices(c *gin.Context) *services.Services {
	if v, exists := c.Get(ContextKeyServices); exists {
		if svc, ok := v.(*services.Services); ok {
			return svc
		}
	}
	return nil
}

// CurrentUser returns the signed-in user, or nil.
func CurrentUser(c *gin.Context) *entities.User {
	store := CurrentStore(c)
	if store == nil {
		return nil
	}
	return store.Snapshot().User
}

// IsAuthenticated reports whether the request's store holds a session.
func IsAuthenticated(c *gin.Context) bool {
	store := CurrentStore(c)
	return store != nil && store.Snapshot().IsAuthenticated
}
