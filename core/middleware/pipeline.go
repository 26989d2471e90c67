package middleware

import (
	"strconv"
	"time"

	"github.com/searchktools/login-server/core/http"
	"github.com/searchktools/login-server/core/router"
)

// Pipeline runs middleware in order before a final handler.
// A middleware that calls ctx.Abort() stops the chain.
type Pipeline struct {
	handlers []http.HandlerFunc
}

// NewPipeline creates a new middleware pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{
		handlers: make([]http.HandlerFunc, 0, 4),
	}
}

// Use adds a middleware to the pipeline
func (p *Pipeline) Use(handler http.HandlerFunc) *Pipeline {
	p.handlers = append(p.handlers, handler)
	return p
}

// Execute runs the middleware, then finalHandler unless aborted
func (p *Pipeline) Execute(ctx *http.Context, finalHandler http.HandlerFunc) {
	for _, h := range p.handlers {
		h(ctx)
		if ctx.IsAborted() {
			return
		}
	}
	finalHandler(ctx)
}

// Then binds the pipeline to finalHandler
func (p *Pipeline) Then(finalHandler http.HandlerFunc) http.HandlerFunc {
	return func(ctx *http.Context) {
		p.Execute(ctx, finalHandler)
	}
}

// RequestLogger tags the request logger with method and path
func RequestLogger() http.HandlerFunc {
	return func(ctx *http.Context) {
		logger := ctx.Logger().With().
			Str("method", string(ctx.Method())).
			Str("path", ctx.Path()).
			Time("received", time.Now()).
			Logger()
		ctx.WithLogger(logger)
		logger.Debug().Msg("request")
	}
}

// AllowMethods answers 405 and aborts for methods r has no routes for
func AllowMethods(r *router.Router) http.HandlerFunc {
	return func(ctx *http.Context) {
		if r.Allows(ctx.Method()) {
			return
		}
		ctx.Logger().Debug().Msg("method not allowed")
		ctx.Abort()
		ctx.Error(405)
	}
}

// RequireSession redirects to loginPath unless the session cookie is true
func RequireSession(loginPath string) http.HandlerFunc {
	return func(ctx *http.Context) {
		raw, _ := ctx.Request().Cookie(http.SessionCookie)
		if ok, err := strconv.ParseBool(raw); err == nil && ok {
			return
		}
		ctx.Logger().Debug().Str("cookie", raw).Msg("no session, redirecting")
		ctx.Abort()
		ctx.Redirect(loginPath)
	}
}
