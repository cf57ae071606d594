package generation

import (
	"fmt"
	"strings"
)

// Category is a scenario's testing intent.
type Category string

const (
	Positive Category = "Positive"
	Negative Category = "Negative"
	Boundary Category = "Boundary"
	Edge     Category = "Edge"

	// All requests every category (comprehensive mode).
	All Category = "All"
)

// Categories lists the concrete categories in generation order.
var Categories = []Category{Positive, Negative, Boundary, Edge}

// ParseCategory accepts a category name in any letter case, including All.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimSpace(s)
	for _, c := range append([]Category{All}, Categories...) {
		if strings.EqualFold(name, string(c)) {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "scenarioType", Message: fmt.Sprintf("unknown scenario type %q", s)}
}

// Valid reports whether c is a concrete category.
func (c Category) Valid() bool {
	switch c {
	case Positive, Negative, Boundary, Edge:
		return true
	}
	return false
}

func (c Category) focus() string {
	switch c {
	case Negative:
		return "invalid inputs, error handling, rejected operations and unauthorized access"
	case Boundary:
		return "minimum and maximum limits, length limits, empty values and values just inside or outside allowed ranges"
	case Edge:
		return "unusual conditions such as special characters, concurrent actions, timezones, interrupted sessions and unexpected navigation"
	default:
		return "normal expected behavior with valid inputs and the main user workflows"
	}
}

// Mode distinguishes single-category and all-category generation.
type Mode string

const (
	ModeStandard      Mode = "standard"
	ModeComprehensive Mode = "comprehensive"
)

// PlanEntry is the quantity to generate for one category.
type PlanEntry struct {
	Category  Category
	Scenarios int
	Steps     int
}

// DefaultComprehensivePlan is the per-category quantity used in comprehensive mode.
var DefaultComprehensivePlan = []PlanEntry{
	{Category: Positive, Scenarios: 3, Steps: 4},
	{Category: Negative, Scenarios: 2, Steps: 4},
	{Category: Boundary, Scenarios: 2, Steps: 4},
	{Category: Edge, Scenarios: 2, Steps: 4},
}
