package services

import (
	"context"

	"github.com/mrlokans/fintrack/internal/entities"
)

// Authenticator covers the backend calls that change or reveal the session.
// The session store depends on this rather than on AuthService directly.
type Authenticator interface {
	Register(ctx context.Context, creds entities.RegisterCredentials) error
	Login(ctx context.Context, creds entities.LoginCredentials) error
	Me(ctx context.Context) (*entities.User, error)
	Logout(ctx context.Context) error
}

// CategoryReader lists the current user's categories.
type CategoryReader interface {
	List(ctx context.Context) ([]entities.Category, error)
}

// TransactionReader reads transactions and backend aggregates.
type TransactionReader interface {
	List(ctx context.Context, filter TransactionFilter) ([]entities.Transaction, error)
	Stats(ctx context.Context, startDate, endDate string) (*entities.Stats, error)
}

var (
	_ Authenticator     = (*AuthService)(nil)
	_ CategoryReader    = (*CategoryService)(nil)
	_ TransactionReader = (*TransactionService)(nil)
)
