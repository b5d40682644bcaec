// Package analytics holds the dashboard math. All functions are pure so
// the formulas stay testable without a database.
package analytics

import "math"

// round1 keeps one decimal, matching what the dashboards display.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ConversionRate is inquiries per hundred views. Zero views means zero,
// never a division error.
func ConversionRate(inquiries, views int64) float64 {
	if views == 0 {
		return 0
	}
	return round1(float64(inquiries) / float64(views) * 100)
}

// Growth compares a current-period count against the previous period of
// the same length. The convention at previous == 0 is 0, applied
// uniformly across every dashboard.
func Growth(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return round1(float64(current-previous) / float64(previous) * 100)
}

// GroupCount is the result row of a group-and-count aggregation.
type GroupCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// GroupShare adds each group's percentage of the total.
type GroupShare struct {
	GroupCount `bson:",inline"`
	Percentage float64 `json:"percentage"`
}

// WithShare computes count/total*100 per group; a zero total yields zero
// shares across the board.
func WithShare(groups []GroupCount, total int64) []GroupShare {
	out := make([]GroupShare, 0, len(groups))
	for _, g := range groups {
		share := GroupShare{GroupCount: g}
		if total > 0 {
			share.Percentage = round1(float64(g.Count) / float64(total) * 100)
		}
		out = append(out, share)
	}
	return out
}
