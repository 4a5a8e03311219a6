package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FlexFloat accepts a JSON number or a numeric string. Campaign records written
// by older admin tooling store the reduction as "15" rather than 15.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*f = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float64() float64 { return float64(f) }

type Campaign struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Photo       string     `json:"photo,omitempty"`
	StartDate   *string    `json:"startDate,omitempty"`
	EndDate     *string    `json:"endDate,omitempty"`
	Reduction   *FlexFloat `json:"reduction,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt,omitempty"`
}

// ReductionPercent returns the discount percentage, 0 when absent.
func (c *Campaign) ReductionPercent() float64 {
	if c == nil || c.Reduction == nil {
		return 0
	}
	return c.Reduction.Float64()
}
