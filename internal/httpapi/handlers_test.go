package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

// stubContext is a minimal httpdriver.RequestContext for exercising
// respondError without a real gin engine.
type stubContext struct {
	status int
	body   any
	store  map[string]any
}

func newStubContext() *stubContext { return &stubContext{store: map[string]any{}} }

func (c *stubContext) Method() string               { return http.MethodPost }
func (c *stubContext) Path() string                  { return "/" }
func (c *stubContext) PathParam(string) string       { return "" }
func (c *stubContext) QueryParam(string) string      { return "" }
func (c *stubContext) Header(string) string          { return "" }
func (c *stubContext) BodyBytes() ([]byte, error)    { return nil, nil }
func (c *stubContext) Cookie(string) (string, error) { return "", nil }
func (c *stubContext) Status(code int)               { c.status = code }
func (c *stubContext) SetHeader(string, string)      {}
func (c *stubContext) SetCookie(string, string, int, string, string, bool, bool) {}
func (c *stubContext) JSON(data any) error        { c.body = data; return nil }
func (c *stubContext) Data(string, []byte) error  { return nil }
func (c *stubContext) HTML(string, any) error     { return nil }
func (c *stubContext) Redirect(int, string)       {}
func (c *stubContext) Set(key string, value any)  { c.store[key] = value }
func (c *stubContext) Get(key string) (any, bool) { v, ok := c.store[key]; return v, ok }
func (c *stubContext) Context() context.Context   { return context.Background() }
func (c *stubContext) Unwrap() any                { return c }

func TestRespondErrorParseErrorIs400(t *testing.T) {
	s := &Server{}
	ctx := newStubContext()
	s.respondError(ctx, newParseError("invalid JSON body: %v", errors.New("boom")))
	if ctx.status != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", ctx.status, http.StatusBadRequest)
	}
}

func TestRespondErrorPipelineErrorIs500(t *testing.T) {
	s := &Server{}
	ctx := newStubContext()
	s.respondError(ctx, errors.New("compact: unreachable: something impossible"))
	if ctx.status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", ctx.status, http.StatusInternalServerError)
	}
}

func TestRespondErrorWrappedParseErrorIs400(t *testing.T) {
	s := &Server{}
	ctx := newStubContext()
	wrapped := errors.Join(newParseError(`value of "langs" should be an array of string`))
	s.respondError(ctx, wrapped)
	if ctx.status != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", ctx.status, http.StatusBadRequest)
	}
}
