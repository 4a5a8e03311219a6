package promotion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomcore/storefront/internal/models"
)

func strPtr(s string) *string { return &s }

func flexPtr(v float64) *models.FlexFloat {
	f := models.FlexFloat(v)
	return &f
}

func campaign(start, end string, reduction float64) *models.Campaign {
	return &models.Campaign{
		StartDate: strPtr(start),
		EndDate:   strPtr(end),
		Reduction: flexPtr(reduction),
	}
}

func TestEvaluateWindow(t *testing.T) {
	c := campaign("2024-01-01T00:00:00Z", "2024-01-10T00:00:00Z", 20)

	at := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return ts
	}

	tests := []struct {
		name string
		now  string
		want Status
	}{
		{"inside window", "2024-01-05T00:00:00Z", StatusPromotional},
		{"after window", "2024-02-01T00:00:00Z", StatusInactive},
		{"before window", "2023-12-31T23:59:59Z", StatusInactive},
		{"start bound inclusive", "2024-01-01T00:00:00Z", StatusPromotional},
		{"end bound inclusive", "2024-01-10T00:00:00Z", StatusPromotional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(c, at(tt.now)))
		})
	}

	// one tick past the end bound
	assert.Equal(t, StatusInactive, Evaluate(c, at("2024-01-10T00:00:00Z").Add(time.Microsecond)))
}

func TestEvaluateZeroReductionIsFeatureOnly(t *testing.T) {
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusCampaign, Evaluate(campaign("2024-01-01", "2024-01-10", 0), now))
	assert.Equal(t, StatusPromotional, Evaluate(campaign("2024-01-01", "2024-01-10", 15), now))
}

func TestEvaluateMissingFields(t *testing.T) {
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		c    *models.Campaign
	}{
		{"nil campaign", nil},
		{"no start", &models.Campaign{EndDate: strPtr("2024-01-10"), Reduction: flexPtr(20)}},
		{"no end", &models.Campaign{StartDate: strPtr("2024-01-01"), Reduction: flexPtr(20)}},
		{"no reduction", &models.Campaign{StartDate: strPtr("2024-01-01"), EndDate: strPtr("2024-01-10")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, StatusInactive, Evaluate(tt.c, now))
		})
	}
}

func TestEvaluateMalformedDates(t *testing.T) {
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusInactive, Evaluate(campaign("not-a-date", "2024-01-10", 20), now))
	assert.Equal(t, StatusInactive, Evaluate(campaign("2024-01-01", "10/01/2024", 20), now))
}

func TestEvaluateStringReduction(t *testing.T) {
	// records written by the old admin form carry the reduction as a string
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	var c models.Campaign
	require.NoError(t, json.Unmarshal([]byte(`{
		"startDate": "2024-01-01",
		"endDate": "2024-01-10",
		"reduction": "15"
	}`), &c))
	assert.Equal(t, StatusPromotional, Evaluate(&c, now))

	var zero models.Campaign
	require.NoError(t, json.Unmarshal([]byte(`{
		"startDate": "2024-01-01",
		"endDate": "2024-01-10",
		"reduction": "0"
	}`), &zero))
	assert.Equal(t, StatusCampaign, Evaluate(&zero, now))
}
