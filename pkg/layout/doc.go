// Package layout parses dashboard layout files and maps editor selections
// back to the objects they describe.
//
// A layout file is YAML with three recognized top-level keys:
//
//	title: Sales Overview
//	options:
//	  theme: dark
//	layout:
//	  - section: Revenue
//	    icon: dollar
//	    content:
//	      - page: Monthly
//	        content:
//	          - LineChart:
//	              source: revenue.csv
//
// # Architecture
//
// The package is organized into subpackages:
//
// - ast: Object model, line spans, navigation and selection lookups
// - parser: YAML decoding, shape classification and object identity
//
// # Basic Usage
//
//	doc := layout.Parse(text)
//
//	// Cursor moved in the editor
//	sel := layout.Select(doc, line, line)
//	if sel.Page != nil {
//	    fmt.Println("Showing page", sel.Page.Name)
//	}
//
//	// Navigation entry clicked in the preview
//	for _, item := range doc.Navigation() {
//	    fmt.Println(item.Type, item.Title)
//	}
//
// Parsing never fails. Text that is not valid YAML yields the tree of its
// longest valid prefix, or an empty document.
package layout
