package core

import (
	"bufio"
	"context"
	"errors"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"github.com/searchktools/login-server/core/http"
	"github.com/searchktools/login-server/core/middleware"
	"github.com/searchktools/login-server/core/router"
)

// Options configures an Engine
type Options struct {
	// BaseURL prefixes redirect locations, e.g. "http://localhost:8080"
	BaseURL string

	// MaxConns bounds concurrently served connections (0 = unbounded)
	MaxConns int

	// ReadTimeout bounds reading one request (0 = block until the client sends)
	ReadTimeout time.Duration

	Logger zerolog.Logger
}

// Engine serves one request per connection, each on its own goroutine
type Engine struct {
	router   *router.Router
	pipeline *middleware.Pipeline
	logger   zerolog.Logger

	baseURL     string
	maxConns    int
	readTimeout time.Duration

	wg     sync.WaitGroup
	active atomic.Int64
	served atomic.Uint64

	connMu  sync.Mutex
	conns   map[net.Conn]struct{}
	closing bool
}

// NewEngine creates a new engine instance
func NewEngine(opts Options) *Engine {
	return &Engine{
		router:      router.New(),
		pipeline:    middleware.NewPipeline(),
		logger:      opts.Logger,
		baseURL:     opts.BaseURL,
		maxConns:    opts.MaxConns,
		readTimeout: opts.ReadTimeout,
		conns:       make(map[net.Conn]struct{}),
	}
}

// Router returns the dispatch table for route registration
func (e *Engine) Router() *router.Router {
	return e.router
}

// Use adds a middleware run before every routed handler
func (e *Engine) Use(handler http.HandlerFunc) {
	e.pipeline.Use(handler)
}

// Active returns the number of connections being served
func (e *Engine) Active() int64 {
	return e.active.Load()
}

// Served returns the number of connections handled so far
func (e *Engine) Served() uint64 {
	return e.served.Load()
}

// Run listens on addr and serves until ctx is cancelled
func (e *Engine) Run(ctx context.Context, addr string) error {
	lc := net.ListenConfig{Control: controlSocket}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	e.logger.Info().
		Str("addr", ln.Addr().String()).
		Int("max_conns", e.maxConns).
		Msg("listening")

	return e.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled or ln fails.
// It then expires pending request reads and waits for in-flight connections.
func (e *Engine) Serve(ctx context.Context, ln net.Listener) error {
	ln = &tunedListener{Listener: ln, logger: e.logger}
	if e.maxConns > 0 {
		ln = netutil.LimitListener(ln, e.maxConns)
	}
	defer ln.Close()

	stop := context.AfterFunc(ctx, func() {
		ln.Close()
		e.expireConns()
	})
	defer stop()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				e.expireConns()
				e.wg.Wait()
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				backoff = nextBackoff(backoff)
				e.logger.Warn().Err(err).Dur("retry_in", backoff).Msg("accept")
				time.Sleep(backoff)
				continue
			}
			e.expireConns()
			e.wg.Wait()
			return err
		}
		backoff = 0

		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.ServeConn(conn)
		}()
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}

// ServeConn reads one request from conn, answers it and closes conn.
// Failures stay inside this connection.
func (e *Engine) ServeConn(conn net.Conn) {
	e.active.Add(1)
	defer func() {
		conn.Close()
		e.active.Add(-1)
		e.served.Add(1)
	}()

	start := time.Now()
	logger := e.logger.With().Str("remote", conn.RemoteAddr().String()).Logger()

	if e.readTimeout > 0 {
		if err := conn.SetReadDeadline(start.Add(e.readTimeout)); err != nil {
			logger.Warn().Err(err).Msg("set read deadline")
		}
	}
	e.trackConn(conn)
	defer e.untrackConn(conn)

	rw := http.NewResponseWriter(conn, e.baseURL)
	req, err := http.ReadRequest(bufio.NewReader(conn))
	if err != nil {
		e.rejectRequest(rw, logger, err)
		return
	}

	ctx := http.NewContext(req, rw, logger)
	e.dispatch(ctx)

	if !rw.Written() {
		ctx.Logger().Error().Msg("handler wrote no response")
		ctx.Error(500)
	}

	ctx.Logger().Info().
		Int("status", rw.Status()).
		Dur("elapsed", time.Since(start)).
		Msg("served")
}

// trackConn registers conn for shutdown; a conn arriving during shutdown
// gets an already expired read deadline.
func (e *Engine) trackConn(conn net.Conn) {
	e.connMu.Lock()
	defer e.connMu.Unlock()

	e.conns[conn] = struct{}{}
	if e.closing {
		conn.SetReadDeadline(time.Now())
	}
}

func (e *Engine) untrackConn(conn net.Conn) {
	e.connMu.Lock()
	delete(e.conns, conn)
	e.connMu.Unlock()
}

// expireConns unblocks every pending request read so shutdown can drain.
// Responses already being written still complete.
func (e *Engine) expireConns() {
	e.connMu.Lock()
	defer e.connMu.Unlock()

	e.closing = true
	now := time.Now()
	for conn := range e.conns {
		conn.SetReadDeadline(now)
	}
	if n := len(e.conns); n > 0 {
		e.logger.Info().Int("conns", n).Msg("expiring pending reads")
	}
}

// rejectRequest answers what can be answered and drops the rest
func (e *Engine) rejectRequest(rw *http.ResponseWriter, logger zerolog.Logger, err error) {
	code := 0
	switch {
	case errors.Is(err, http.ErrEmptyRequest):
		logger.Debug().Msg("connection closed before request line")
		return
	case errors.Is(err, http.ErrMalformedRequestLine), errors.Is(err, http.ErrMalformedHeader):
		code = 400
	case errors.Is(err, http.ErrBodyTooLarge):
		code = 413
	}

	if code == 0 {
		// Missing or invalid Content-Length, short body and I/O failures
		// leave no trustworthy request to answer.
		logger.Warn().Err(err).Msg("dropping connection")
		return
	}

	logger.Warn().Err(err).Int("status", code).Msg("rejecting request")
	if werr := rw.Error(code); werr != nil {
		logger.Error().Err(werr).Msg("write response")
	}
}

// dispatch runs the middleware pipeline and the routed handler,
// turning a handler panic into a 500.
func (e *Engine) dispatch(ctx *http.Context) {
	defer func() {
		if r := recover(); r != nil {
			ctx.Logger().Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			if !ctx.Response().Written() {
				ctx.Error(500)
			}
		}
	}()

	e.pipeline.Execute(ctx, func(ctx *http.Context) {
		h, result := e.router.Find(ctx.Method(), ctx.Path())
		switch result {
		case router.NotFound:
			ctx.Error(404)
		case router.MethodNotAllowed:
			ctx.Error(405)
		default:
			h(ctx)
		}
	})
}
