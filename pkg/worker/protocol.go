package worker

import (
	"encoding/json"
	"fmt"

	"webviz-hq/layoutd/pkg/layout/ast"
)

// RequestType identifies a worker request.
type RequestType string

const (
	// RequestParse replaces the document with the parse of Text.
	RequestParse RequestType = "Parse"

	// RequestParseAndSetSelection parses Text and resolves the line range
	// against the new document in the same step.
	RequestParseAndSetSelection RequestType = "ParseAndSetSelection"

	// RequestGetClosestObject resolves a line range against the current
	// document.
	RequestGetClosestObject RequestType = "GetClosestObject"

	// RequestGetObjectByID looks up a page by id in the current document.
	RequestGetObjectByID RequestType = "GetObjectById"
)

// ResponseType identifies a worker response.
type ResponseType string

const (
	ResponseParsed                ResponseType = "Parsed"
	ResponseParsedAndSetSelection ResponseType = "ParsedAndSetSelection"
	ResponseClosestObject         ResponseType = "ClosestObject"
	ResponseObjectByID            ResponseType = "ObjectById"
)

// Request is one message to a worker. Which fields are read depends on Type.
type Request struct {
	Type            RequestType `json:"type"`
	Text            string      `json:"text,omitempty"`
	StartLineNumber int         `json:"startLineNumber,omitempty"`
	EndLineNumber   int         `json:"endLineNumber,omitempty"`
	ID              string      `json:"id,omitempty"`
}

// Response answers a Request. Parse responses carry Objects, Title and
// Navigation. Range lookups carry Object and Page; for ParsedAndSetSelection
// Object is the selected object and is encoded as selectedObject. ObjectById
// carries the page in Object.
type Response struct {
	Type       ResponseType          `json:"type"`
	Objects    []*ast.YamlObject     `json:"objects,omitempty"`
	Title      string                `json:"title,omitempty"`
	Navigation []*ast.NavigationItem `json:"navigationItems,omitempty"`
	Object     ast.Node              `json:"object"`
	Page       *ast.LayoutObject     `json:"page,omitempty"`
}

// MarshalJSON encodes the response in the wire shape editors consume.
func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	if r.Type != ResponseParsedAndSetSelection {
		return json.Marshal(plain(r))
	}
	return json.Marshal(struct {
		plain
		Object         ast.Node `json:"object,omitempty"`
		SelectedObject ast.Node `json:"selectedObject"`
	}{plain: plain(r), SelectedObject: r.Object})
}

// ParseRequest builds a Parse request.
func ParseRequest(text string) Request {
	return Request{Type: RequestParse, Text: text}
}

// ParseAndSetSelectionRequest builds a ParseAndSetSelection request.
func ParseAndSetSelectionRequest(text string, start, end int) Request {
	return Request{Type: RequestParseAndSetSelection, Text: text, StartLineNumber: start, EndLineNumber: end}
}

// ClosestObjectRequest builds a GetClosestObject request.
func ClosestObjectRequest(start, end int) Request {
	return Request{Type: RequestGetClosestObject, StartLineNumber: start, EndLineNumber: end}
}

// ObjectByIDRequest builds a GetObjectById request.
func ObjectByIDRequest(id string) Request {
	return Request{Type: RequestGetObjectByID, ID: id}
}

// Validate reports whether the request type is known.
func (r Request) Validate() error {
	switch r.Type {
	case RequestParse, RequestParseAndSetSelection, RequestGetClosestObject, RequestGetObjectByID:
		return nil
	default:
		return fmt.Errorf("unknown request type %q", r.Type)
	}
}
