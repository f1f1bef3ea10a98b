package parser

import (
	"log/slog"
	"math"

	"gopkg.in/yaml.v3"

	"webviz-hq/layoutd/pkg/layout/ast"
)

// Top-level keys recognized in a layout document.
const (
	keyTitle   = "title"
	keyOptions = "options"
	keyLayout  = "layout"

	keyContent = "content"
	keyIcon    = "icon"
)

// containerShapes lists the container keywords in classification priority order.
var containerShapes = []struct {
	keyword string
	typ     ast.ObjectType
}{
	{"section", ast.ObjectTypeSection},
	{"group", ast.ObjectTypeGroup},
	{"page", ast.ObjectTypePage},
}

// builder constructs the object tree from decoded YAML nodes.
// Shapes it cannot classify are dropped, never reported: the input is
// usually a buffer in the middle of an edit.
type builder struct {
	ids    *idAllocator
	logger *slog.Logger
	source []string // lines of the decoded text

	objects []*ast.YamlObject
	seen    map[string]bool
	omitted int
}

// newBuilder creates a builder for one parse.
func newBuilder(strategy IDStrategy, logger *slog.Logger, source []string) *builder {
	return &builder{
		ids:    newIDAllocator(strategy),
		logger: logger,
		source: source,
		seen:   make(map[string]bool),
	}
}

// addDocument appends the recognized top-level objects of one YAML document.
// Keys already produced by an earlier occurrence are skipped.
func (b *builder) addDocument(doc *yaml.Node) {
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return
		}
		root = root.Content[0]
	}
	if !isMapping(root) {
		return
	}

	for _, p := range pairs(root) {
		key := resolve(p.key)
		if !isScalar(key) || b.seen[key.Value] {
			continue
		}

		var obj *ast.YamlObject
		switch key.Value {
		case keyTitle:
			obj = b.buildTitle(p.key, p.value)
		case keyOptions:
			obj = b.buildOptions(p.key, p.value)
		case keyLayout:
			obj = b.buildLayout(p.key, p.value)
		default:
			continue
		}
		if obj == nil {
			continue
		}

		b.seen[key.Value] = true
		b.objects = append(b.objects, obj)
	}
}

func (b *builder) buildTitle(key, value *yaml.Node) *ast.YamlObject {
	target := resolve(value)
	if !isScalar(target) {
		return nil
	}

	id, _ := b.ids.next("", ast.ObjectTypeTitle, keyTitle)
	return &ast.YamlObject{
		Type:  ast.ObjectTypeTitle,
		ID:    id,
		Key:   keyTitle,
		Span:  span(key.Line, endLine(value)),
		Title: rawScalar(b.source, target),
	}
}

func (b *builder) buildOptions(key, value *yaml.Node) *ast.YamlObject {
	if !isMapping(value) {
		return nil
	}

	id, _ := b.ids.next("", ast.ObjectTypeOptions, keyOptions)
	return &ast.YamlObject{
		Type:    ast.ObjectTypeOptions,
		ID:      id,
		Key:     keyOptions,
		Span:    span(key.Line, endLine(value)),
		Options: b.buildOptionEntries(value, 0),
	}
}

// buildOptionEntries converts an options mapping. Scalars are typed from
// their resolved tag, nested mappings recurse, everything else is skipped.
func (b *builder) buildOptionEntries(m *yaml.Node, depth int) []*ast.OptionEntry {
	entries := make([]*ast.OptionEntry, 0, len(m.Content)/2)
	if depth > maxAliasDepth {
		return entries
	}

	for _, p := range pairs(m) {
		key := resolve(p.key)
		if !isScalar(key) {
			continue
		}

		value := resolve(p.value)
		switch {
		case isScalar(value):
			entries = append(entries, &ast.OptionEntry{Key: key.Value, Value: optionScalar(value)})
		case isMapping(value):
			entries = append(entries, &ast.OptionEntry{Key: key.Value, Value: b.buildOptionEntries(value, depth+1)})
		}
	}
	return entries
}

// optionScalar types a scalar by its resolved YAML tag. Values that JSON
// cannot carry (.inf, .nan) stay strings.
func optionScalar(n *yaml.Node) interface{} {
	switch n.ShortTag() {
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err == nil {
			return v
		}
	case "!!int":
		var v int64
		if err := n.Decode(&v); err == nil {
			return v
		}
		var f float64
		if err := n.Decode(&f); err == nil && !math.IsInf(f, 0) {
			return f
		}
	case "!!float":
		var v float64
		if err := n.Decode(&v); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return v
		}
	}
	return n.Value
}

func (b *builder) buildLayout(key, value *yaml.Node) *ast.YamlObject {
	if !isSequence(value) {
		return nil
	}

	id, path := b.ids.next("", ast.ObjectTypeLayout, keyLayout)
	return &ast.YamlObject{
		Type:   ast.ObjectTypeLayout,
		ID:     id,
		Key:    keyLayout,
		Span:   span(key.Line, endLine(value)),
		Layout: b.buildLayoutItems(value, path),
	}
}

// buildLayoutItems converts the items of a layout or content sequence.
func (b *builder) buildLayoutItems(seq *yaml.Node, parentPath string) []*ast.LayoutObject {
	items := make([]*ast.LayoutObject, 0, len(seq.Content))
	for _, item := range seq.Content {
		if obj := b.buildLayoutItem(item, parentPath); obj != nil {
			items = append(items, obj)
		}
	}
	return items
}

func (b *builder) buildLayoutItem(item *yaml.Node, parentPath string) *ast.LayoutObject {
	switch item.Kind {
	case yaml.ScalarNode:
		if isEmpty(item) {
			b.omit(item, "empty item")
			return nil
		}
		return b.plainText(item.Value, item.Line, parentPath)

	case yaml.AliasNode:
		if target := resolve(item); isScalar(target) {
			return b.plainText(target.Value, item.Line, parentPath)
		}
		b.omit(item, "alias to a collection")
		return nil

	case yaml.MappingNode:
		for _, shape := range containerShapes {
			if obj := b.buildContainer(item, shape.keyword, shape.typ, parentPath); obj != nil {
				return obj
			}
		}
		if obj := b.buildPlugin(item, parentPath); obj != nil {
			return obj
		}
		b.omit(item, "unrecognized mapping shape")
		return nil
	}

	b.omit(item, "unsupported node kind")
	return nil
}

func (b *builder) plainText(text string, line int, parentPath string) *ast.LayoutObject {
	id, _ := b.ids.next(parentPath, ast.ObjectTypePlainText, text)
	return &ast.LayoutObject{
		Type: ast.ObjectTypePlainText,
		ID:   id,
		Name: text,
		Span: span(line, line),
	}
}

// buildContainer matches the section/group/page shape: the keyword with a
// scalar title, content with a sequence, and optionally icon with a scalar.
// Any other key, or a missing required key, fails the match.
func (b *builder) buildContainer(m *yaml.Node, keyword string, typ ast.ObjectType, parentPath string) *ast.LayoutObject {
	entries := pairs(m)
	if len(entries) < 2 || len(entries) > 3 {
		return nil
	}

	var name, icon, content *yaml.Node
	for _, p := range entries {
		key := resolve(p.key)
		if !isScalar(key) {
			return nil
		}
		value := resolve(p.value)

		switch key.Value {
		case keyword:
			if name != nil || !isScalar(value) {
				return nil
			}
			name = value
		case keyContent:
			// Content must not be an alias: its items would carry the anchor's lines.
			if content != nil || !isSequence(p.value) {
				return nil
			}
			content = p.value
		case keyIcon:
			if icon != nil || !isScalar(value) {
				return nil
			}
			icon = value
		default:
			return nil
		}
	}
	if name == nil || content == nil {
		return nil
	}

	id, path := b.ids.next(parentPath, typ, name.Value)
	obj := &ast.LayoutObject{
		Type:     typ,
		ID:       id,
		Name:     name.Value,
		Span:     span(m.Line, endLine(m)),
		Children: b.buildLayoutItems(content, path),
	}
	if icon != nil {
		obj.Icon = icon.Value
	}
	return obj
}

// buildPlugin matches a mapping with exactly one key whose value is a mapping
// of named arguments.
func (b *builder) buildPlugin(m *yaml.Node, parentPath string) *ast.LayoutObject {
	entries := pairs(m)
	if len(entries) != 1 {
		return nil
	}

	key := resolve(entries[0].key)
	args := entries[0].value
	if !isScalar(key) || !isMapping(args) {
		return nil
	}

	id, path := b.ids.next(parentPath, ast.ObjectTypePlugin, key.Value)
	return &ast.LayoutObject{
		Type:      ast.ObjectTypePlugin,
		ID:        id,
		Name:      key.Value,
		Span:      span(m.Line, endLine(m)),
		Arguments: b.buildArguments(args, path),
	}
}

// buildArguments converts the named arguments of a plugin. Each argument
// spans its key line through the end of its value.
func (b *builder) buildArguments(m *yaml.Node, parentPath string) []*ast.PluginArgument {
	args := make([]*ast.PluginArgument, 0, len(m.Content)/2)
	for _, p := range pairs(m) {
		key := resolve(p.key)
		if !isScalar(key) {
			continue
		}

		value := p.value
		if target := resolve(value); isScalar(target) || isSequence(target) {
			value = target
		}

		var arg *ast.PluginArgument
		switch {
		case isScalar(value):
			arg = b.newArgument(key.Value, parentPath, ast.ScalarValue(value.Value))
		case isSequence(value):
			arg = b.newArgument(key.Value, parentPath, ast.ListValue(scalarItems(value)))
		case isMapping(value):
			var path string
			arg = &ast.PluginArgument{Name: key.Value}
			arg.ID, path = b.ids.next(parentPath, ast.ObjectTypePluginArgument, key.Value)
			arg.Value = ast.ObjectValue(b.buildArguments(value, path))
		default:
			b.omit(p.value, "alias to a mapping argument")
			continue
		}

		arg.Span = span(p.key.Line, endLine(p.value))
		args = append(args, arg)
	}
	return args
}

func (b *builder) newArgument(name, parentPath string, value ast.ArgumentValue) *ast.PluginArgument {
	id, _ := b.ids.next(parentPath, ast.ObjectTypePluginArgument, name)
	return &ast.PluginArgument{ID: id, Name: name, Value: value}
}

// scalarItems returns the scalar texts of a sequence, dropping nested collections.
func scalarItems(seq *yaml.Node) []string {
	items := make([]string, 0, len(seq.Content))
	for _, item := range seq.Content {
		if target := resolve(item); isScalar(target) {
			items = append(items, target.Value)
		}
	}
	return items
}

// omit records a node that did not produce an object.
func (b *builder) omit(n *yaml.Node, reason string) {
	b.omitted++
	b.logger.Debug("layout item omitted", "line", n.Line, "reason", reason)
}

// span builds a line span, clamping end to start for nodes that carry no
// line information of their own.
func span(start, end int) ast.LineSpan {
	if end < start {
		end = start
	}
	return ast.LineSpan{Start: start, End: end}
}
