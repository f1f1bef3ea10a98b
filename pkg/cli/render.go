package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"webviz-hq/layoutd/pkg/layout/ast"
)

// Outline is a parsed document rendered as an indented object tree.
type Outline struct {
	Objects []*ast.YamlObject
}

// WriteText prints one line per object: type, line span and name.
func (o Outline) WriteText(w io.Writer) error {
	if len(o.Objects) == 0 {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}

	ew := &errWriter{w: w}
	for _, obj := range o.Objects {
		switch obj.Type {
		case ast.ObjectTypeTitle:
			ew.printf("%s [%s] %q\n", obj.Type, obj.Span.Format(), obj.Title)
		case ast.ObjectTypeOptions:
			ew.printf("%s [%s] %d keys\n", obj.Type, obj.Span.Format(), len(obj.Options))
		default:
			ew.printf("%s [%s]\n", obj.Type, obj.Span.Format())
			for _, child := range obj.Layout {
				writeLayout(ew, child, 1)
			}
		}
	}
	return ew.err
}

// MarshalJSON renders the outline as the object array of the HTTP API.
func (o Outline) MarshalJSON() ([]byte, error) {
	if o.Objects == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.Objects)
}

func writeLayout(ew *errWriter, obj *ast.LayoutObject, depth int) {
	indent := strings.Repeat("  ", depth)
	ew.printf("%s%s [%s] %s\n", indent, obj.Type, obj.Span.Format(), obj.Name)
	for _, arg := range obj.Arguments {
		writeArgument(ew, arg, depth+1)
	}
	for _, child := range obj.Children {
		writeLayout(ew, child, depth+1)
	}
}

func writeArgument(ew *errWriter, arg *ast.PluginArgument, depth int) {
	indent := strings.Repeat("  ", depth)
	switch arg.Value.Kind {
	case ast.ArgumentKindScalar:
		ew.printf("%s%s [%s] = %s\n", indent, arg.Name, arg.Span.Format(), arg.Value.Scalar)
	case ast.ArgumentKindList:
		ew.printf("%s%s [%s] = [%s]\n", indent, arg.Name, arg.Span.Format(), strings.Join(arg.Value.List, ", "))
	default:
		ew.printf("%s%s [%s]\n", indent, arg.Name, arg.Span.Format())
		for _, nested := range arg.Value.Object {
			writeArgument(ew, nested, depth+1)
		}
	}
}

// Navigation is the sidebar tree derived from a document.
type Navigation []*ast.NavigationItem

// WriteText prints the tree as a bulleted list.
func (n Navigation) WriteText(w io.Writer) error {
	if len(n) == 0 {
		_, err := fmt.Fprintln(w, "(no navigation)")
		return err
	}

	ew := &errWriter{w: w}
	writeNavigation(ew, n, 0)
	return ew.err
}

func writeNavigation(ew *errWriter, items []*ast.NavigationItem, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, item := range items {
		line := fmt.Sprintf("%s- %s (%s)", indent, item.Title, item.Type)
		if item.Icon != "" {
			line += " icon=" + item.Icon
		}
		if item.Href != "" {
			line += " -> " + item.Href
		}
		ew.printf("%s\n", line)
		writeNavigation(ew, item.Content, depth+1)
	}
}

// Selection is the answer to a closest-object query.
type Selection struct {
	Start  int               `json:"start"`
	End    int               `json:"end"`
	Object ast.Node          `json:"object"`
	Page   *ast.LayoutObject `json:"page"`
}

// WriteText prints the selected object and its page.
func (s Selection) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("lines:  %s\n", ast.LineSpan{Start: s.Start, End: s.End}.Format())
	if s.Object == nil {
		ew.printf("object: (none)\n")
	} else {
		ew.printf("object: %s [%s] %s\n", s.Object.ObjectType(), s.Object.Lines().Format(), nodeName(s.Object))
	}
	if s.Page == nil {
		ew.printf("page:   (none)\n")
	} else {
		ew.printf("page:   %s [%s] id=%s\n", s.Page.Name, s.Page.Span.Format(), s.Page.ID)
	}
	return ew.err
}

func nodeName(n ast.Node) string {
	switch v := n.(type) {
	case *ast.YamlObject:
		return v.Key
	case *ast.LayoutObject:
		return v.Name
	case *ast.PluginArgument:
		return v.Name
	}
	return ""
}

// FileReport summarizes the parse of one file for "layoutd check".
type FileReport struct {
	Path       string        `json:"path"`
	Bytes      int           `json:"bytes"`
	Objects    int           `json:"objects"`
	Recoveries int           `json:"recoveries"`
	Omitted    int           `json:"omitted"`
	Failed     bool          `json:"failed"`
	Duration   time.Duration `json:"durationNs"`
	Error      string        `json:"error,omitempty"`
}

// OK reports whether the file parsed cleanly.
func (r FileReport) OK() bool {
	return r.Error == "" && !r.Failed && r.Recoveries == 0 && r.Omitted == 0
}

// Status is a one-word summary of the parse.
func (r FileReport) Status() string {
	switch {
	case r.Error != "":
		return "error"
	case r.Failed:
		return "failed"
	case r.Recoveries > 0:
		return "recovered"
	case r.Omitted > 0:
		return "partial"
	default:
		return "ok"
	}
}

// CheckReport is the result of "layoutd check".
type CheckReport struct {
	Files []FileReport `json:"files"`
}

// Problems counts files that did not parse cleanly.
func (c CheckReport) Problems() int {
	n := 0
	for _, f := range c.Files {
		if !f.OK() {
			n++
		}
	}
	return n
}

// WriteText prints an aligned table with one row per file.
func (c CheckReport) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	ew := &errWriter{w: tw}

	ew.printf("FILE\tSTATUS\tSIZE\tOBJECTS\tRECOVERIES\tOMITTED\n")
	for _, f := range c.Files {
		ew.printf("%s\t%s\t%s\t%d\t%d\t%d\n",
			f.Path, f.Status(), humanize.Bytes(uint64(f.Bytes)), f.Objects, f.Recoveries, f.Omitted)
	}
	if ew.err != nil {
		return ew.err
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range c.Files {
		if f.Error != "" {
			if _, err := fmt.Fprintf(w, "%s: %s\n", f.Path, f.Error); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d of %d files clean\n", len(c.Files)-c.Problems(), len(c.Files))
	return err
}

// errWriter keeps the first write error so renderers can print freely.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
