package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
)

// HTTPRequest describes a request for a handler under test. Handlers are
// called directly, so chi's route context is attached by hand.
//
// Example:
//
//	req := testutil.HTTPRequest{
//	    Method:    http.MethodGet,
//	    Path:      "/api/snapshot/account/123-456",
//	    URLParams: map[string]string{"uuid": "123-456"},
//	    Query:     map[string]string{"startDate": "2024-01-01"},
//	}.Build()
type HTTPRequest struct {
	Method    string
	Path      string
	Body      string // sent as application/json when set
	URLParams map[string]string
	Query     map[string]string
}

// Build creates the *http.Request.
func (r HTTPRequest) Build() *http.Request {
	var req *http.Request
	if r.Body != "" {
		req = httptest.NewRequest(r.Method, r.Path, strings.NewReader(r.Body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(r.Method, r.Path, nil)
	}

	if len(r.Query) > 0 {
		q := req.URL.Query()
		for key, value := range r.Query {
			q.Set(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	if len(r.URLParams) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range r.URLParams {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req
}

// NewRequestWithURLParams creates a bodiless request with chi URL parameters.
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	return HTTPRequest{Method: method, Path: path, URLParams: params}.Build()
}

// NewJSONRequestWithURLParams creates a request carrying a JSON body and chi URL parameters.
func NewJSONRequestWithURLParams(method, path, body string, params map[string]string) *http.Request {
	return HTTPRequest{Method: method, Path: path, Body: body, URLParams: params}.Build()
}
