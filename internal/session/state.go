package session

import "github.com/mrlokans/fintrack/internal/entities"

// Status is the derived session state shown to the UI.
type Status string

const (
	StatusAnonymous     Status = "anonymous"
	StatusLoading       Status = "loading"
	StatusAuthenticated Status = "authenticated"
	StatusError         Status = "error"
)

// State is a point-in-time copy of the store.
type State struct {
	User            *entities.User
	IsAuthenticated bool
	IsLoading       bool
	// Error is the last failure message; empty means none.
	Error string
}

// Status derives the UI status. A request in flight wins over everything else.
func (s State) Status() Status {
	switch {
	case s.IsLoading:
		return StatusLoading
	case s.IsAuthenticated:
		return StatusAuthenticated
	case s.Error != "":
		return StatusError
	default:
		return StatusAnonymous
	}
}
