package ast

import (
	"encoding/json"
	"fmt"
)

// IndexEntry is one record of the identity index.
type IndexEntry struct {
	ID     string
	Object Node
	Span   LineSpan
}

// Document is the immutable result of parsing one YAML buffer: the top-level
// objects in document order plus the identity index over every node.
// All lookup operations are methods on Document, so independent documents can
// be queried concurrently without shared state.
type Document struct {
	objects []*YamlObject
	index   []IndexEntry
	byID    map[string]int
}

// NewDocument builds a document from parsed top-level objects and indexes
// every node reachable from them. It returns an error if two nodes share an id.
func NewDocument(objects []*YamlObject) (*Document, error) {
	doc := &Document{
		objects: objects,
		byID:    make(map[string]int),
	}

	err := Walk(objects, NodeFunc(func(node, _ Node) error {
		id := node.ObjectID()
		if _, exists := doc.byID[id]; exists {
			return fmt.Errorf("duplicate object id %q", id)
		}
		doc.byID[id] = len(doc.index)
		doc.index = append(doc.index, IndexEntry{
			ID:     id,
			Object: node,
			Span:   node.Lines(),
		})
		return nil
	}))
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Empty returns a document with no objects.
func Empty() *Document {
	return &Document{byID: make(map[string]int)}
}

// Objects returns the top-level objects in document order.
func (d *Document) Objects() []*YamlObject {
	if d.objects == nil {
		return []*YamlObject{}
	}
	return d.objects
}

// Len returns the number of top-level objects.
func (d *Document) Len() int {
	return len(d.objects)
}

// Object returns the first top-level object of the given type, or nil.
func (d *Document) Object(t ObjectType) *YamlObject {
	for _, obj := range d.objects {
		if obj.Type == t {
			return obj
		}
	}
	return nil
}

// Title returns the dashboard title, or "" if the document has none.
func (d *Document) Title() string {
	if obj := d.Object(ObjectTypeTitle); obj != nil {
		return obj.Title
	}
	return ""
}

// Index returns the identity index in document order.
func (d *Document) Index() []IndexEntry {
	return d.index
}

// Lookup returns the index entry for id, whatever its type.
func (d *Document) Lookup(id string) (IndexEntry, bool) {
	i, ok := d.byID[id]
	if !ok {
		return IndexEntry{}, false
	}
	return d.index[i], true
}

// ObjectByID resolves a navigation reference to its page. Ids of any other
// object type, and unknown ids, yield nil.
func (d *Document) ObjectByID(id string) *LayoutObject {
	entry, ok := d.Lookup(id)
	if !ok {
		return nil
	}
	if page, ok := entry.Object.(*LayoutObject); ok && page.Type == ObjectTypePage {
		return page
	}
	return nil
}

// FindClosestObject returns the most deeply nested object whose span contains
// the line range, found by greedy first-match descent: at each depth the first
// sibling in document order that contains the range is taken, and the search
// never backtracks. It returns nil if no top-level object contains the range.
func (d *Document) FindClosestObject(start, end int) Node {
	return d.findClosest(start, end, false)
}

// FindClosestPage runs the same descent as FindClosestObject but stops at the
// first page that contains the range, even if the page has nested children.
// It returns nil when the descent ends on anything other than a page.
func (d *Document) FindClosestPage(start, end int) *LayoutObject {
	node := d.findClosest(start, end, true)
	if page, ok := node.(*LayoutObject); ok && page.Type == ObjectTypePage {
		return page
	}
	return nil
}

func (d *Document) findClosest(start, end int, stopAtPage bool) Node {
	start, end = NormalizeRange(start, end)

	candidates := make([]Node, 0, len(d.objects))
	for _, obj := range d.objects {
		candidates = append(candidates, obj)
	}

	var last Node
	for {
		var match Node
		for _, candidate := range candidates {
			if candidate.Lines().Contains(start, end) {
				match = candidate
				break
			}
		}
		if match == nil {
			return last
		}

		last = match
		if stopAtPage && match.ObjectType() == ObjectTypePage {
			return last
		}

		candidates = descendable(match)
		if len(candidates) == 0 {
			return last
		}
	}
}

// descendable returns the nested objects a selection lookup may descend into.
// Plugins are terminal: their arguments are not selectable in the preview.
func descendable(node Node) []Node {
	var children []*LayoutObject
	switch n := node.(type) {
	case *YamlObject:
		if n.Type != ObjectTypeLayout {
			return nil
		}
		children = n.Layout
	case *LayoutObject:
		if !n.Type.IsContainer() {
			return nil
		}
		children = n.Children
	default:
		return nil
	}

	nodes := make([]Node, len(children))
	for i, child := range children {
		nodes[i] = child
	}
	return nodes
}

// MarshalJSON encodes the document as its list of top-level objects.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Objects())
}
