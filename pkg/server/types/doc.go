// Package types defines the JSON bodies of the layoutd HTTP API.
//
// Successful responses:
//   - DocumentResponse: PUT and GET /v1/documents/{id}
//   - SelectionResponse: GET /v1/documents/{id}/closest
//   - ObjectResponse: GET /v1/documents/{id}/objects/{objectID}
//   - DocumentList: GET /v1/documents
//
// Every error uses the same envelope:
//
//	{"error": {"type": "not_found", "message": "document \"sales\" not found"}}
//
// ErrorDetail.HTTPStatusCode maps the type to the response status.
package types
