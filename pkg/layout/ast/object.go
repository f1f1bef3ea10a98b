package ast

import "encoding/json"

// ObjectType identifies the kind of a parsed node.
type ObjectType string

const (
	// Top-level document objects
	ObjectTypeTitle   ObjectType = "TITLE"
	ObjectTypeOptions ObjectType = "OPTIONS"
	ObjectTypeLayout  ObjectType = "LAYOUT"

	// Layout objects
	ObjectTypeSection   ObjectType = "SECTION"
	ObjectTypeGroup     ObjectType = "GROUP"
	ObjectTypePage      ObjectType = "PAGE"
	ObjectTypePlugin    ObjectType = "PLUGIN"
	ObjectTypePlainText ObjectType = "PLAIN_TEXT"

	// Plugin invocation arguments
	ObjectTypePluginArgument ObjectType = "PLUGIN_ARGUMENT"
)

// IsContainer returns true for layout types that hold nested layout objects.
func (t ObjectType) IsContainer() bool {
	return t == ObjectTypeSection || t == ObjectTypeGroup || t == ObjectTypePage
}

// Node is implemented by every object registered in a document's identity index.
type Node interface {
	ObjectID() string
	ObjectType() ObjectType
	Lines() LineSpan
}

// YamlObject is a node at the top level of the document: the title, the
// options block or the layout sequence. Exactly one of Title, Options and
// Layout is meaningful, selected by Type.
type YamlObject struct {
	Type ObjectType
	ID   string
	Key  string // Mapping key that produced the object ("title", "options", "layout")
	Span LineSpan

	Title   string          // Type == ObjectTypeTitle
	Options []*OptionEntry  // Type == ObjectTypeOptions
	Layout  []*LayoutObject // Type == ObjectTypeLayout
}

// ObjectID implements Node.
func (o *YamlObject) ObjectID() string { return o.ID }

// ObjectType implements Node.
func (o *YamlObject) ObjectType() ObjectType { return o.Type }

// Lines implements Node.
func (o *YamlObject) Lines() LineSpan { return o.Span }

// Value returns the type-specific payload of the object.
func (o *YamlObject) Value() interface{} {
	switch o.Type {
	case ObjectTypeTitle:
		return o.Title
	case ObjectTypeOptions:
		return o.Options
	case ObjectTypeLayout:
		return o.Layout
	default:
		return nil
	}
}

// MarshalJSON renders the object in the shape consumed by the preview pane.
func (o *YamlObject) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type            ObjectType  `json:"type"`
		ID              string      `json:"id"`
		Key             string      `json:"key"`
		Value           interface{} `json:"value"`
		StartLineNumber int         `json:"startLineNumber"`
		EndLineNumber   int         `json:"endLineNumber"`
	}{o.Type, o.ID, o.Key, o.Value(), o.Span.Start, o.Span.End})
}

// LayoutObject is a node inside the layout sequence. Sections, groups and
// pages nest further layout objects in Children; plugins carry their named
// arguments in Arguments; plain text items have neither.
type LayoutObject struct {
	Type ObjectType
	ID   string
	Name string // Section/group/page title, plugin name, or the raw text
	Icon string // Optional, sections/groups/pages only
	Span LineSpan

	Children  []*LayoutObject
	Arguments []*PluginArgument
}

// ObjectID implements Node.
func (o *LayoutObject) ObjectID() string { return o.ID }

// ObjectType implements Node.
func (o *LayoutObject) ObjectType() ObjectType { return o.Type }

// Lines implements Node.
func (o *LayoutObject) Lines() LineSpan { return o.Span }

// MarshalJSON emits Children or Arguments under a single "children" key.
func (o *LayoutObject) MarshalJSON() ([]byte, error) {
	var children interface{} = []*LayoutObject{}
	switch {
	case o.Type == ObjectTypePlugin:
		args := o.Arguments
		if args == nil {
			args = []*PluginArgument{}
		}
		children = args
	case o.Children != nil:
		children = o.Children
	}

	return json.Marshal(struct {
		Type            ObjectType  `json:"type"`
		ID              string      `json:"id"`
		Name            string      `json:"name"`
		Icon            string      `json:"icon,omitempty"`
		Children        interface{} `json:"children"`
		StartLineNumber int         `json:"startLineNumber"`
		EndLineNumber   int         `json:"endLineNumber"`
	}{o.Type, o.ID, o.Name, o.Icon, children, o.Span.Start, o.Span.End})
}

// PluginArgument is a named input of one plugin invocation.
type PluginArgument struct {
	ID    string
	Name  string
	Value ArgumentValue
	Span  LineSpan
}

// ObjectID implements Node.
func (a *PluginArgument) ObjectID() string { return a.ID }

// ObjectType implements Node.
func (a *PluginArgument) ObjectType() ObjectType { return ObjectTypePluginArgument }

// Lines implements Node.
func (a *PluginArgument) Lines() LineSpan { return a.Span }

// MarshalJSON implements json.Marshaler.
func (a *PluginArgument) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID              string        `json:"id"`
		Name            string        `json:"name"`
		Value           ArgumentValue `json:"value"`
		StartLineNumber int           `json:"startLineNumber"`
		EndLineNumber   int           `json:"endLineNumber"`
	}{a.ID, a.Name, a.Value, a.Span.Start, a.Span.End})
}

// ArgumentKind discriminates the payload of an ArgumentValue.
type ArgumentKind string

const (
	ArgumentKindScalar ArgumentKind = "scalar"
	ArgumentKindList   ArgumentKind = "list"
	ArgumentKindObject ArgumentKind = "object"
)

// ArgumentValue is the opaque value of a plugin argument: a scalar's source
// text, a list of scalars, or a nested list of named arguments.
type ArgumentValue struct {
	Kind   ArgumentKind
	Scalar string
	List   []string
	Object []*PluginArgument
}

// ScalarValue builds a scalar argument value.
func ScalarValue(s string) ArgumentValue {
	return ArgumentValue{Kind: ArgumentKindScalar, Scalar: s}
}

// ListValue builds a list argument value.
func ListValue(items []string) ArgumentValue {
	if items == nil {
		items = []string{}
	}
	return ArgumentValue{Kind: ArgumentKindList, List: items}
}

// ObjectValue builds a nested argument value.
func ObjectValue(args []*PluginArgument) ArgumentValue {
	if args == nil {
		args = []*PluginArgument{}
	}
	return ArgumentValue{Kind: ArgumentKindObject, Object: args}
}

// Interface returns the payload as a plain Go value.
func (v ArgumentValue) Interface() interface{} {
	switch v.Kind {
	case ArgumentKindList:
		return v.List
	case ArgumentKindObject:
		return v.Object
	default:
		return v.Scalar
	}
}

// MarshalJSON encodes only the payload, so a scalar argument is a JSON string.
func (v ArgumentValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// OptionEntry is one key/value pair under the options block.
// Value holds a bool, int64, float64 or string for scalars, and
// []*OptionEntry for nested mappings.
type OptionEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Nested returns the nested entries if the value is a mapping.
func (e *OptionEntry) Nested() ([]*OptionEntry, bool) {
	entries, ok := e.Value.([]*OptionEntry)
	return entries, ok
}
