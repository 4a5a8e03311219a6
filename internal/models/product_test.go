package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignFieldReferenceShape(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "p1",
		"name": "Aspirin",
		"price": 100,
		"campaign": "campaign/c42"
	}`), &p))

	require.NotNil(t, p.Campaign)
	assert.Equal(t, "c42", p.Campaign.Ref)
	assert.Nil(t, p.Campaign.Embedded)
	assert.Equal(t, "c42", p.CampaignID())
}

func TestCampaignFieldEmbeddedShape(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "p1",
		"name": "Aspirin",
		"price": 100,
		"campaign": {
			"id": "c42",
			"startDate": "2024-01-01",
			"endDate": "2024-01-10",
			"reduction": 20
		}
	}`), &p))

	require.NotNil(t, p.Campaign)
	require.NotNil(t, p.Campaign.Embedded)
	assert.Equal(t, "c42", p.Campaign.Embedded.ID)
	assert.Equal(t, 20.0, p.Campaign.Embedded.ReductionPercent())
	assert.Equal(t, "c42", p.CampaignID())
}

func TestCampaignFieldNull(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id": "p1", "campaign": null}`), &p))
	require.NotNil(t, p.Campaign)
	assert.True(t, p.Campaign.IsZero())
	assert.Empty(t, p.CampaignID())
}

func TestCampaignFieldRoundTrip(t *testing.T) {
	ref := CampaignField{Ref: "c1"}
	data, err := json.Marshal(ref)
	require.NoError(t, err)
	assert.JSONEq(t, `"campaign/c1"`, string(data))

	var back CampaignField
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ref, back)
}

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `15`, 15},
		{"zero", `0`, 0},
		{"string number", `"15"`, 15},
		{"string zero", `"0"`, 0},
		{"decimal string", `"12.5"`, 12.5},
		{"empty string", `""`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.want, f.Float64())
		})
	}

	var f FlexFloat
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &f))
}
