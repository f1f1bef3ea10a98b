package layout

import (
	"webviz-hq/layoutd/pkg/layout/ast"
	"webviz-hq/layoutd/pkg/layout/parser"
)

// Parse is a convenience function that parses layout text with the default
// parser configuration.
func Parse(text string) *ast.Document {
	return parser.NewParser().Parse(text)
}

// ParseBytes parses layout text held in a byte slice.
func ParseBytes(data []byte) *ast.Document {
	return parser.NewParser().ParseBytes(data)
}

// Selection is the answer to an editor selection change: the closest object
// to highlight in the preview and the page that contains it.
type Selection struct {
	Object ast.Node
	Page   *ast.LayoutObject
}

// Select resolves a line range against a parsed document.
func Select(doc *ast.Document, start, end int) Selection {
	return Selection{
		Object: doc.FindClosestObject(start, end),
		Page:   doc.FindClosestPage(start, end),
	}
}
