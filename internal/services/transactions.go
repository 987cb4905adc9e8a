package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/entities"
)

// DateLayout is the backend's transaction date format.
const DateLayout = "2006-01-02"

var (
	ErrInvalidAmount          = entities.ErrInvalidAmount
	ErrInvalidTransactionType = errors.New("transaction type must be income or expense")
	ErrInvalidDate            = errors.New("date must be in YYYY-MM-DD format")
	ErrCategoryRequired       = errors.New("category is required")
)

// TransactionFilter narrows GET /transactions. Zero values are omitted.
type TransactionFilter struct {
	Type       entities.TransactionType
	StartDate  string
	EndDate    string
	CategoryID uint
	Limit      int
	Offset     int
}

// Query encodes the filter as backend query parameters.
func (f TransactionFilter) Query() url.Values {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	if f.CategoryID != 0 {
		q.Set("categoryId", strconv.FormatUint(uint64(f.CategoryID), 10))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q
}

// TransactionService wraps the /transactions endpoints.
type TransactionService struct {
	client *apiclient.Client
}

func NewTransactionService(client *apiclient.Client) *TransactionService {
	return &TransactionService{client: client}
}

// List returns transactions matching filter.
func (s *TransactionService) List(ctx context.Context, filter TransactionFilter) ([]entities.Transaction, error) {
	endpoint := withQuery("/transactions", filter.Query())
	txs, err := apiclient.Get[[]entities.Transaction](ctx, s.client, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// Get returns a single transaction.
func (s *TransactionService) Get(ctx context.Context, id uint) (*entities.Transaction, error) {
	tx, err := apiclient.Get[entities.Transaction](ctx, s.client, fmt.Sprintf("/transactions/%d", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	return &tx, nil
}

// Create validates and records a transaction.
func (s *TransactionService) Create(ctx context.Context, in entities.TransactionInput) (*entities.Transaction, error) {
	if err := ValidateTransactionInput(in); err != nil {
		return nil, err
	}
	tx, err := apiclient.Post[entities.Transaction](ctx, s.client, "/transactions", in)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return &tx, nil
}

// Update applies a partial update; only non-nil fields of patch are sent.
func (s *TransactionService) Update(ctx context.Context, id uint, patch entities.TransactionPatch) (*entities.Transaction, error) {
	if err := validateTransactionPatch(patch); err != nil {
		return nil, err
	}
	tx, err := apiclient.Put[entities.Transaction](ctx, s.client, fmt.Sprintf("/transactions/%d", id), patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction %d: %w", id, err)
	}
	return &tx, nil
}

// Delete removes a transaction.
func (s *TransactionService) Delete(ctx context.Context, id uint) error {
	if err := s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	return nil
}

// Stats returns backend aggregates, optionally bounded by start and end dates.
func (s *TransactionService) Stats(ctx context.Context, startDate, endDate string) (*entities.Stats, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}
	stats, err := apiclient.Get[entities.Stats](ctx, s.client, withQuery("/transactions/stats", q))
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction stats: %w", err)
	}
	return &stats, nil
}

// ValidateTransactionInput checks a new transaction before it is sent.
func ValidateTransactionInput(in entities.TransactionInput) error {
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !in.Type.Valid() {
		return ErrInvalidTransactionType
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return ErrInvalidDate
	}
	if in.CategoryID == 0 {
		return ErrCategoryRequired
	}
	return nil
}

func validateTransactionPatch(p entities.TransactionPatch) error {
	if p.Amount != nil && *p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if p.Type != nil && !p.Type.Valid() {
		return ErrInvalidTransactionType
	}
	if p.Date != nil {
		if _, err := time.Parse(DateLayout, *p.Date); err != nil {
			return ErrInvalidDate
		}
	}
	if p.CategoryID != nil && *p.CategoryID == 0 {
		return ErrCategoryRequired
	}
	return nil
}

// ParseAmount parses user input such as "12.34" or "12,34" into a positive amount.
func ParseAmount(s string) (entities.Amount, error) {
	amount, err := entities.ParseAmount(s)
	if err != nil || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

func withQuery(path string, q url.Values) string {
	if encoded := q.Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
