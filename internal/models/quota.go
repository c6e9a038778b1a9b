// Package models defines the data types shared across the application.
package models

// QuotaSnapshot is the full set of quota limits returned by one fetch.
// A successful refresh replaces the previous snapshot wholesale.
type QuotaSnapshot struct {
	Limits []Limit `json:"limits"`
}

// Limit is a single quota dimension reported by the upstream plan.
// Numeric fields are pointers because the API omits them depending on plan
// type; an absent value must render as "N/A", never as zero.
type Limit struct {
	Type          string        `json:"type"`
	Usage         *int64        `json:"usage"`
	CurrentValue  *int64        `json:"currentValue"`
	Remaining     *int64        `json:"remaining"`
	Percentage    *float64      `json:"percentage"`
	Unit          *int64        `json:"unit"`
	Number        *int          `json:"number"`
	UsageDetails  []UsageDetail `json:"usageDetails"`
	NextResetTime *int64        `json:"nextResetTime"` // ms since epoch, UTC
}

// UsageDetail is a per-model usage breakdown entry under a Limit.
type UsageDetail struct {
	ModelCode *string `json:"modelCode"`
	Usage     *int64  `json:"usage"`
}

// PercentageOrZero returns the limit's percentage, or 0 when absent.
func (l *Limit) PercentageOrZero() float64 {
	if l.Percentage == nil {
		return 0
	}
	return *l.Percentage
}

// TopLimit returns the limit with the highest percentage, or nil when no
// limit in the snapshot carries a percentage at all.
func (s *QuotaSnapshot) TopLimit() *Limit {
	if s == nil {
		return nil
	}
	var top *Limit
	for i := range s.Limits {
		l := &s.Limits[i]
		if l.Percentage == nil {
			continue
		}
		if top == nil || *l.Percentage > *top.Percentage {
			top = l
		}
	}
	return top
}
