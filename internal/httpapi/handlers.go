// Package httpapi wires the labelize/compactify pipeline to HTTP routes.
// Route registration, the request body adapter, and the static help page
// are all explicitly out of scope for the core per spec.md §1 — this
// package is where that wiring lives. Grounded on the teacher's
// api/core.go request-handling idiom (BodyBytes + uuid.NewString request
// IDs) and lib/http's RequestContext abstraction.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"labelize/internal/compact"
	"labelize/internal/label"
	"labelize/internal/zobject"
	httpdriver "labelize/lib/http"
	"labelize/shared/logger"
)

// Server holds the dependencies route handlers close over.
type Server struct {
	resolver     *label.Resolver
	defaultLangs []string
}

func NewServer(resolver *label.Resolver, defaultLangs []string) *Server {
	return &Server{resolver: resolver, defaultLangs: defaultLangs}
}

// Register attaches every labelize-server route to driver.
func (s *Server) Register(driver httpdriver.HTTPDriver) error {
	routes := []struct {
		method, path string
		handler      func(httpdriver.RequestContext)
	}{
		{"GET", "/", s.handleHelp},
		{"GET", "/healthz", s.handleHealthz},
		{"POST", "/labelize", s.handleLabelize},
		{"POST", "/compactify", s.handleCompactify},
		{"POST", "/debug", s.handleDebug},
	}
	if err := driver.AddMiddleware(s.requestIDMiddleware); err != nil {
		return err
	}
	for _, rt := range routes {
		if err := driver.AddRoute(rt.method, rt.path, rt.handler); err != nil {
			return err
		}
	}
	return nil
}

// requestIDMiddleware stamps every request with a correlation ID, mirroring
// the teacher's uuid.NewString() request-identity idiom.
func (s *Server) requestIDMiddleware(ctx httpdriver.RequestContext, next func()) {
	reqID := ctx.Header("X-Request-Id")
	if reqID == "" {
		reqID = uuid.NewString()
	}
	ctx.Set("request_id", reqID)
	ctx.SetHeader("X-Request-Id", reqID)
	next()
}

func (s *Server) handleHealthz(ctx httpdriver.RequestContext) {
	ctx.Status(http.StatusOK)
	_ = ctx.JSON(map[string]string{"status": "ok"})
}

func (s *Server) handleHelp(ctx httpdriver.RequestContext) {
	ctx.Status(http.StatusOK)
	_ = ctx.Data("text/plain; charset=utf-8", []byte(helpText))
}

const helpText = `labelize-server

POST /labelize   body: JSON document, or {"data": <doc>, "langs": [string,...]}
POST /compactify same body shape; runs the full labelize+compactify pipeline
POST /debug      same body shape; returns every pipeline stage
GET  /healthz    liveness probe
GET  /metrics    Prometheus metrics
`

func (s *Server) handleLabelize(ctx httpdriver.RequestContext) {
	pr, err := s.parseBody(ctx)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	simple, err := label.Labelize(ctx.Context(), pr.Data, s.resolver)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
	_ = ctx.JSON(zobject.ChooseLang(simple, pr.Langs))
}

func (s *Server) handleCompactify(ctx httpdriver.RequestContext) {
	pr, err := s.parseBody(ctx)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	simple, err := label.Labelize(ctx.Context(), pr.Data, s.resolver)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	cv, err := compact.Compactify(simple)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
	_ = ctx.JSON(compact.ChooseLang(cv, pr.Langs))
}

func (s *Server) handleDebug(ctx httpdriver.RequestContext) {
	pr, err := s.parseBody(ctx)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	simple, err := label.Labelize(ctx.Context(), pr.Data, s.resolver)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	stages, err := compact.RunStages(simple, pr.Langs)
	if err != nil {
		s.respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
	_ = ctx.JSON(stages)
}

func (s *Server) parseBody(ctx httpdriver.RequestContext) (parsedRequest, error) {
	body, err := ctx.BodyBytes()
	if err != nil {
		return parsedRequest{}, err
	}
	return parseRequestBody(body, s.defaultLangs)
}

// respondError distinguishes request-body adapter failures (*parseError,
// spec.md §7: HTTP 400 with a textual reason) from everything else —
// labeling and pass/form-conversion failures, which spec.md §7 calls
// "fatal for the request": the server returns 500.
func (s *Server) respondError(ctx httpdriver.RequestContext, err error) {
	status := http.StatusInternalServerError
	var pe *parseError
	if errors.As(err, &pe) {
		status = http.StatusBadRequest
	}

	if reqID, ok := ctx.Get("request_id"); ok {
		logger.Warn("request failed", logger.String("request_id", reqID.(string)), logger.Int("status", status), logger.Err(err))
	} else {
		logger.Warn("request failed", logger.Int("status", status), logger.Err(err))
	}
	ctx.Status(status)
	_ = ctx.JSON(map[string]string{"error": err.Error()})
}
