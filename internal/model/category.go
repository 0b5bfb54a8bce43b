package model

import "strings"

// ProtectedCategoryName is the built-in income category. It cannot be
// deleted and is excluded from categorization suggestion requests.
const ProtectedCategoryName = "Monthly Income"

// Category represents an expense or income category.
type Category struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Predefined bool     `json:"isPredefined"`
	Keywords   []string `json:"keywords,omitempty"`
}

// Protected reports whether the category may not be deleted. Predefined
// categories and the built-in income category are always protected.
func (c *Category) Protected() bool {
	return c.Predefined || strings.EqualFold(c.Name, ProtectedCategoryName)
}

// CategoryKeywords is the name-plus-keywords shape sent to the
// categorization inference service.
type CategoryKeywords struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}
