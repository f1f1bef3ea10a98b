package types

import (
	"time"

	"webviz-hq/layoutd/pkg/layout/ast"
)

// DocumentResponse is the parse result of a stored document.
type DocumentResponse struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Objects    []*ast.YamlObject     `json:"objects"`
	Navigation []*ast.NavigationItem `json:"navigation"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// SelectionResponse answers a line-range lookup. Both fields are null when
// nothing encloses the range.
type SelectionResponse struct {
	Object ast.Node          `json:"object"`
	Page   *ast.LayoutObject `json:"page"`
}

// ObjectResponse answers an id lookup.
type ObjectResponse struct {
	Object *ast.LayoutObject `json:"object"`
}

// DocumentSummary describes one open document in a listing.
type DocumentSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Bytes     int       `json:"bytes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DocumentList is the body of the document listing.
type DocumentList struct {
	Documents []DocumentSummary `json:"documents"`
}
