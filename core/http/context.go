package http

import (
	"github.com/rs/zerolog"
)

// HandlerFunc handles one request
type HandlerFunc func(ctx *Context)

// Context carries one request through middleware and its handler
type Context struct {
	request  *Request
	response *ResponseWriter
	logger   zerolog.Logger
	aborted  bool
	err      error
}

// NewContext binds a parsed request to its response writer and logger
func NewContext(req *Request, rw *ResponseWriter, logger zerolog.Logger) *Context {
	return &Context{
		request:  req,
		response: rw,
		logger:   logger,
	}
}

// Request returns the parsed request
func (c *Context) Request() *Request {
	return c.request
}

// Response returns the response writer
func (c *Context) Response() *ResponseWriter {
	return c.response
}

// Method returns the HTTP method
func (c *Context) Method() Method {
	return c.request.Method()
}

// Path returns the request path
func (c *Context) Path() string {
	return c.request.Path()
}

// Logger returns the request-scoped logger
func (c *Context) Logger() *zerolog.Logger {
	return &c.logger
}

// WithLogger replaces the request-scoped logger
func (c *Context) WithLogger(logger zerolog.Logger) {
	c.logger = logger
}

// Abort stops the remaining middleware and handler
func (c *Context) Abort() {
	c.aborted = true
}

// IsAborted reports whether Abort was called
func (c *Context) IsAborted() bool {
	return c.aborted
}

// Err returns the first write error, if any
func (c *Context) Err() error {
	return c.err
}

// OK sends 200 with body
func (c *Context) OK(body []byte) {
	c.record(c.response.OK(body))
}

// Redirect sends 302 to path
func (c *Context) Redirect(path string) {
	c.record(c.response.Redirect(path))
}

// LoginResult sends the login outcome with the session cookie
func (c *Context) LoginResult(authenticated bool, body []byte) {
	c.record(c.response.LoginResult(authenticated, body))
}

// Error sends an error status
func (c *Context) Error(code int) {
	c.record(c.response.Error(code))
}

func (c *Context) record(err error) {
	if err == nil {
		return
	}
	c.logger.Error().Err(err).Int("status", c.response.Status()).Msg("write response")
	if c.err == nil {
		c.err = err
	}
}
