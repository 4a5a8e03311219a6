package models

// OrderBy values accepted by ProductQuery.
const (
	OrderByUpdatedAt = "updatedAt"
	OrderByMostViews = "mostViews"
)

// ProductQuery is a request descriptor, not a persisted entity. Zero values
// mean "not constrained".
type ProductQuery struct {
	Search     string
	Category   string
	CampaignID string
	OrderBy    string
	Limit      int
	ExceptID   string
}
