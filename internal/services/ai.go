package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/fintrack/internal/apiclient"
)

// ErrSuggestionsFailed is returned when the backend answers success=false.
var ErrSuggestionsFailed = errors.New("failed to get AI suggestions")

type suggestionsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Suggestions string `json:"suggestions"`
	} `json:"data"`
}

// AIService wraps the /ai endpoints.
type AIService struct {
	client *apiclient.Client
}

func NewAIService(client *apiclient.Client) *AIService {
	return &AIService{client: client}
}

// Suggestions requests markdown advice for a period such as "March 2025".
func (s *AIService) Suggestions(ctx context.Context, period string) (string, error) {
	if period == "" {
		return "", ErrInvalidPeriod
	}
	resp, err := apiclient.Post[suggestionsResponse](ctx, s.client, "/ai/suggestions", map[string]string{"period": period})
	if err != nil {
		return "", fmt.Errorf("failed to get AI suggestions: %w", err)
	}
	if !resp.Success {
		return "", ErrSuggestionsFailed
	}
	return resp.Data.Suggestions, nil
}
