package models

import (
	"encoding/json"
	"strings"
	"time"
)

// CampaignField is the campaign attachment on a product. Older catalog records
// embed a copy of the campaign's discount fields; newer ones store a
// "campaign/<id>" reference. Both shapes unmarshal into this one type so the
// rest of the code never branches on record generation.
type CampaignField struct {
	Ref      string
	Embedded *Campaign
}

func (cf *CampaignField) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*cf = CampaignField{}
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var ref string
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*cf = CampaignField{Ref: strings.TrimPrefix(ref, "campaign/")}
		return nil
	}
	var c Campaign
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	*cf = CampaignField{Embedded: &c}
	return nil
}

func (cf CampaignField) MarshalJSON() ([]byte, error) {
	if cf.Embedded != nil {
		return json.Marshal(cf.Embedded)
	}
	if cf.Ref != "" {
		return json.Marshal("campaign/" + cf.Ref)
	}
	return []byte("null"), nil
}

// IsZero reports whether no campaign is attached at all.
func (cf CampaignField) IsZero() bool {
	return cf.Ref == "" && cf.Embedded == nil
}

type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	NameLower   string         `json:"nameLower"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Price       float64        `json:"price"`
	Quantity    int            `json:"quantity"`
	Photo       string         `json:"photo,omitempty"`
	Campaign    *CampaignField `json:"campaign,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CampaignID returns the attached campaign's id for either field shape,
// or "" when none is attached.
func (p *Product) CampaignID() string {
	if p.Campaign == nil {
		return ""
	}
	if p.Campaign.Embedded != nil {
		return p.Campaign.Embedded.ID
	}
	return p.Campaign.Ref
}
