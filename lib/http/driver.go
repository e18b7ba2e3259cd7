package http

import "context"

// RequestContext provides the framework-agnostic request/response interface
// that route handlers are written against, so httpapi never imports gin
// directly. Ported from the teacher's universal.RequestContext.
type RequestContext interface {
	// Request information
	Method() string
	Path() string
	PathParam(name string) string
	QueryParam(name string) string
	Header(name string) string
	BodyBytes() ([]byte, error)
	Cookie(name string) (string, error)

	// Response operations
	Status(code int)
	SetHeader(name, value string)
	SetCookie(name, value string, maxAge int, path, domain string, secure, httpOnly bool)
	JSON(data any) error
	Data(contentType string, data []byte) error
	HTML(name string, data any) error
	Redirect(code int, url string)

	// Context storage
	Set(key string, value any)
	Get(key string) (any, bool)

	// Framework integration
	Context() context.Context
	Unwrap() any
}

// HTTPDriver defines the interface that HTTP adapters must implement
// This is what user-initialized drivers (Gin, FastHTTP, etc.) implement
type HTTPDriver interface {
	// Route registration
	AddRoute(method, path string, handler func(RequestContext)) error
	
	// Middleware management
	AddMiddleware(middleware func(RequestContext, func())) error
	
	// Server lifecycle
	Start(address string) error
	Stop() error
	
	// Driver metadata
	DriverName() string
	DriverVersion() string
}