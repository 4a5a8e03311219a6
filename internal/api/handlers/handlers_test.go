package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomcore/storefront/internal/models"
)

func TestParseProductQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/products?search=asp&category=health&campaign=c1&order_by=updatedAt&limit=8&except=p9", nil)

	q, err := parseProductQuery(r)
	require.NoError(t, err)
	assert.Equal(t, models.ProductQuery{
		Search:     "asp",
		Category:   "health",
		CampaignID: "c1",
		OrderBy:    models.OrderByUpdatedAt,
		Limit:      8,
		ExceptID:   "p9",
	}, q)
}

func TestParseProductQueryDefaults(t *testing.T) {
	q, err := parseProductQuery(httptest.NewRequest("GET", "/products", nil))
	require.NoError(t, err)
	assert.Equal(t, models.ProductQuery{}, q)
}

func TestParseProductQueryRejectsBadInput(t *testing.T) {
	_, err := parseProductQuery(httptest.NewRequest("GET", "/products?order_by=price", nil))
	assert.Error(t, err)

	_, err = parseProductQuery(httptest.NewRequest("GET", "/products?limit=abc", nil))
	assert.Error(t, err)

	_, err = parseProductQuery(httptest.NewRequest("GET", "/products?limit=-1", nil))
	assert.Error(t, err)
}

func TestCampaignRequestValidate(t *testing.T) {
	date := "2024-01-01"
	bad := "01/01/2024"
	over := 120.0
	ok := 15.0

	tests := []struct {
		name    string
		req     CampaignRequest
		wantErr bool
	}{
		{"valid", CampaignRequest{Title: "Sale", StartDate: &date, EndDate: &date, Reduction: &ok}, false},
		{"no title", CampaignRequest{}, true},
		{"reduction over 100", CampaignRequest{Title: "Sale", Reduction: &over}, true},
		{"bad date", CampaignRequest{Title: "Sale", StartDate: &bad}, true},
		{"window optional", CampaignRequest{Title: "Teaser"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.req.validate()
			if tt.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestYearOptions(t *testing.T) {
	assert.Equal(t, []int{2020, 2021, 2022, 2023, 2024}, yearOptions(2024))
	assert.Equal(t, []int{2020}, yearOptions(2020))
	assert.Equal(t, []int{2020}, yearOptions(2019))
}
