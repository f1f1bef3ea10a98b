package ast

// Visitor provides an interface for traversing a parsed document.
// Implement this interface to inspect every node (indexing, rendering,
// invariant checks, etc.). Parent is nil for top-level objects.
type Visitor interface {
	VisitObject(obj *YamlObject) error
	VisitLayout(obj *LayoutObject, parent Node) error
	VisitArgument(arg *PluginArgument, parent Node) error
}

// Walk traverses the objects depth-first in document order and calls the
// visitor for each node. It returns the first error encountered, or nil if
// traversal completes.
func Walk(objects []*YamlObject, visitor Visitor) error {
	for _, obj := range objects {
		if err := visitor.VisitObject(obj); err != nil {
			return err
		}

		if obj.Type != ObjectTypeLayout {
			continue
		}
		for _, child := range obj.Layout {
			if err := walkLayout(child, obj, visitor); err != nil {
				return err
			}
		}
	}

	return nil
}

// walkLayout recursively walks a layout object and its arguments or children.
func walkLayout(obj *LayoutObject, parent Node, visitor Visitor) error {
	if err := visitor.VisitLayout(obj, parent); err != nil {
		return err
	}

	for _, arg := range obj.Arguments {
		if err := walkArgument(arg, obj, visitor); err != nil {
			return err
		}
	}

	for _, child := range obj.Children {
		if err := walkLayout(child, obj, visitor); err != nil {
			return err
		}
	}

	return nil
}

// walkArgument recursively walks object-typed plugin arguments.
func walkArgument(arg *PluginArgument, parent Node, visitor Visitor) error {
	if err := visitor.VisitArgument(arg, parent); err != nil {
		return err
	}

	for _, nested := range arg.Value.Object {
		if err := walkArgument(nested, arg, visitor); err != nil {
			return err
		}
	}

	return nil
}

// NodeFunc adapts a function to the Visitor interface.
type NodeFunc func(node, parent Node) error

// VisitObject implements Visitor.
func (f NodeFunc) VisitObject(obj *YamlObject) error { return f(obj, nil) }

// VisitLayout implements Visitor.
func (f NodeFunc) VisitLayout(obj *LayoutObject, parent Node) error { return f(obj, parent) }

// VisitArgument implements Visitor.
func (f NodeFunc) VisitArgument(arg *PluginArgument, parent Node) error { return f(arg, parent) }
