package http

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Method is an HTTP request method. Parsing keeps it verbatim;
// routing decides which methods are served.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// MaxBodySize caps the Content-Length accepted for a request body
const MaxBodySize = 1 << 20

var (
	ErrMissingContentLength = errors.New("missing Content-Length")
	ErrInvalidContentLength = errors.New("invalid Content-Length")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrShortBody            = errors.New("request body shorter than Content-Length")
)

// Request is an immutable parsed HTTP request
type Request struct {
	method  Method
	path    string
	proto   string
	header  Header
	params  Values
	cookies Values
}

// ReadRequest reads one request from r.
// Parameters come from the query string for non-POST requests and from the
// Content-Length delimited body for POST, never from both.
func ReadRequest(r *bufio.Reader) (*Request, error) {
	line, err := readLine(r)
	if err == io.EOF {
		return nil, ErrEmptyRequest
	}
	if errors.Is(err, ErrLineTooLong) {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequestLine, err)
	}
	if err != nil {
		return nil, err
	}

	rl, err := ParseRequestLine(line)
	if err != nil {
		return nil, err
	}

	header, _, err := ReadHeaders(r)
	if err != nil {
		return nil, err
	}

	req := &Request{
		method: rl.Method,
		path:   rl.Path,
		proto:  rl.Proto,
		header: header,
		params: rl.Query,
	}
	cookie, _ := header.Get("Cookie")
	req.cookies = ParseCookies(cookie)

	if rl.Method == MethodPost {
		body, err := readBody(r, header)
		if err != nil {
			return nil, err
		}
		req.params = ParseQueryString(string(body))
	}

	return req, nil
}

// readBody reads exactly Content-Length bytes
func readBody(r *bufio.Reader, header Header) ([]byte, error) {
	raw, ok := header.Get("Content-Length")
	if !ok {
		return nil, ErrMissingContentLength
	}

	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentLength, raw)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentLength, raw)
	}
	if n > MaxBodySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, n)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: %w", ErrShortBody, io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	return body, nil
}

// Method returns the request method
func (r *Request) Method() Method {
	return r.method
}

// Path returns the request path without its query string
func (r *Request) Path() string {
	return r.path
}

// Proto returns the protocol version from the request line
func (r *Request) Proto() string {
	return r.proto
}

// Header returns the value of the named header and whether it was sent
func (r *Request) Header(name string) (string, bool) {
	return r.header.Get(name)
}

// Headers returns a copy of the header block
func (r *Request) Headers() Header {
	h := NewHeader()
	for _, name := range r.header.names {
		h.Set(name, r.header.values[name])
	}
	return h
}

// Parameter returns a query or body parameter, "" when absent
func (r *Request) Parameter(name string) string {
	return r.params[name]
}

// Parameters returns a copy of all parameters
func (r *Request) Parameters() Values {
	out := make(Values, len(r.params))
	for k, v := range r.params {
		out[k] = v
	}
	return out
}

// Cookie returns the named cookie from the Cookie header
func (r *Request) Cookie(name string) (string, bool) {
	v, ok := r.cookies[name]
	return v, ok
}
