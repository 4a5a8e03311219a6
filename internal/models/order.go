package models

import "time"

// OrderLine is a snapshot of one purchased product. Promotion is the discount
// percentage captured at checkout; it never tracks later campaign edits, so
// historical order totals stay stable.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Promotion float64 `json:"promotion"`
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Lines     []OrderLine `json:"lines"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
}
