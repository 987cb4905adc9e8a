package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIService_Suggestions(t *testing.T) {
	var sent map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/ai/suggestions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"suggestions":"## Spend less"}}`)
	})
	backend := newRecordingBackend(t, mux)

	text, err := NewAIService(backend.client()).Suggestions(context.Background(), "March 2025")
	require.NoError(t, err)
	assert.Equal(t, "## Spend less", text)
	assert.Equal(t, map[string]string{"period": "March 2025"}, sent)
	assert.Equal(t, []string{"POST /ai/suggestions"}, backend.Requests())
}

func TestAIService_SuggestionsUnsuccessful(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ai/suggestions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false,"data":{"suggestions":""}}`)
	})
	backend := newRecordingBackend(t, mux)

	_, err := NewAIService(backend.client()).Suggestions(context.Background(), "March 2025")
	assert.ErrorIs(t, err, ErrSuggestionsFailed)
}

func TestAIService_EmptyPeriodSkipsBackend(t *testing.T) {
	backend := newRecordingBackend(t, http.NewServeMux())

	_, err := NewAIService(backend.client()).Suggestions(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	assert.Empty(t, backend.Requests())
}
