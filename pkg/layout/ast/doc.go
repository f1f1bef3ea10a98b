// Package ast provides the object model for parsed dashboard layout files.
//
// A layout file is a YAML document whose recognized top-level keys are
// title, options and layout. The layout key holds a recursive tree of
// sections, groups, pages, plugin invocations and plain text items.
// Every node carries the 1-based line span it covers in the source text,
// so an editor selection can be mapped back to the node it belongs to.
//
// # Core Types
//
// Document: Immutable parse result with top-level objects and the identity index
//
// YamlObject: Top-level title, options or layout object
//
// LayoutObject: Section, group, page, plugin or plain text item
//
// PluginArgument: Named argument of a plugin invocation
//
// OptionEntry: Key/value pair under the options block
//
// LineSpan: Inclusive line range (1-based)
//
// # Basic Usage
//
//	doc := parser.NewParser().Parse(text)
//
//	fmt.Println("Title:", doc.Title())
//
//	// Editor cursor moved to lines 12-14
//	if obj := doc.FindClosestObject(12, 14); obj != nil {
//	    fmt.Println("Selected:", obj.ObjectType(), obj.ObjectID())
//	}
//
//	// Navigation entry clicked in the preview
//	if page := doc.ObjectByID(href); page != nil {
//	    fmt.Println("Current page:", page.Name)
//	}
//
// # Object Structure
//
//	Document
//	├── YamlObject (TITLE)    value: string
//	├── YamlObject (OPTIONS)  value: []*OptionEntry (recursive)
//	└── YamlObject (LAYOUT)   value: []*LayoutObject
//	    ├── SECTION / GROUP / PAGE
//	    │   └── Children ([]*LayoutObject)
//	    ├── PLUGIN
//	    │   └── Arguments ([]*PluginArgument, recursive for object values)
//	    └── PLAIN_TEXT
//
// # Line Spans
//
// A node's span always encloses the spans of its children. The end line of a
// container is the line of its last leaf token, so trailing blank lines or
// comments are not counted.
//
// # Immutability
//
// Documents are treated as immutable after construction. Lookups never
// modify the tree and are safe for concurrent use.
package ast
