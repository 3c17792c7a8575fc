// Package planai calls an external AI planning service that drafts a year of
// month-by-month event ideas for a business. It is an optional alternative to
// the built-in quarterly generator.
package planai

import "context"

// Request describes the business the plan is drafted for.
type Request struct {
	BusinessType string `json:"businessType"`
	Location     string `json:"location"`
}

// Month is one drafted month item. Month is 1-based; Category is one of
// Apparel, Community, Holiday or Business.
type Month struct {
	Month    int    `json:"month"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Details  string `json:"details"`
}

// Plan is the full drafted year.
type Plan struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	Months     []Month  `json:"months"`
}

// Generator is the interface for drafting an annual plan via an external service.
type Generator interface {
	GeneratePlan(ctx context.Context, req Request) (Plan, error)
}
