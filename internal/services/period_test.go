package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2025-03", "March 2025", false},
		{"2024-12", "December 2024", false},
		{" 2023-01 ", "January 2023", false},
		{"", "", true},
		{"2025-13", "", true},
		{"March 2025", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := FormatPeriod(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange("2024-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", start)
	assert.Equal(t, "2024-02-29", end)
}
