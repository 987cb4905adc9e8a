// Package services wraps the finance backend's endpoints in typed calls and
// holds the client-side computations the pages need (totals, filtering,
// period formatting).
package services

import "github.com/mrlokans/fintrack/internal/apiclient"

// Services bundles every backend service bound to one API client.
type Services struct {
	Auth         *AuthService
	Categories   *CategoryService
	Transactions *TransactionService
	AI           *AIService
}

// New binds all services to client. Clients are cheap; a request-scoped
// client (with its own cookie jar) gets its own Services.
func New(client *apiclient.Client) *Services {
	return &Services{
		Auth:         NewAuthService(client),
		Categories:   NewCategoryService(client),
		Transactions: NewTransactionService(client),
		AI:           NewAIService(client),
	}
}
