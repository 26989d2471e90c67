package http

import (
	"errors"
	"io"
	"strconv"

	"github.com/searchktools/login-server/core/pools"
)

const (
	contentTypeHTML  = "text/html;charset=utf-8"
	contentTypePlain = "text/plain;charset=utf-8"

	// SessionCookie carries the login flag between requests
	SessionCookie = "logined"
)

var ErrAlreadyWritten = errors.New("response already written")

var bufferPool = pools.NewBufferPool()

// BufferStats reports usage of the response buffer pool
func BufferStats() pools.BufferStats {
	return bufferPool.Stats()
}

// ResponseWriter frames one HTTP/1.1 response onto w.
// Each response is built in a pooled buffer and written with a single Write.
type ResponseWriter struct {
	w       io.Writer
	baseURL string
	status  int
}

// NewResponseWriter creates a writer; baseURL prefixes redirect locations
// (e.g. "http://localhost:8080").
func NewResponseWriter(w io.Writer, baseURL string) *ResponseWriter {
	return &ResponseWriter{w: w, baseURL: baseURL}
}

// OK sends 200 with an HTML body
func (rw *ResponseWriter) OK(body []byte) error {
	return rw.write(200, func(b []byte) []byte {
		return appendHeader(b, "Content-Type", contentTypeHTML)
	}, body, true)
}

// Redirect sends 302 Found to baseURL+path with no body
func (rw *ResponseWriter) Redirect(path string) error {
	return rw.write(302, func(b []byte) []byte {
		return appendHeader(b, "Location", rw.baseURL+path)
	}, nil, false)
}

// LoginResult sends 200 with the session cookie set to authenticated
func (rw *ResponseWriter) LoginResult(authenticated bool, body []byte) error {
	return rw.write(200, func(b []byte) []byte {
		b = appendHeader(b, "Content-Type", contentTypeHTML)
		return appendHeader(b, "Set-Cookie", SessionCookie+"="+strconv.FormatBool(authenticated))
	}, body, true)
}

// Error sends code with its status text as a plain-text body
func (rw *ResponseWriter) Error(code int) error {
	body := []byte(statusText(code))
	return rw.write(code, func(b []byte) []byte {
		return appendHeader(b, "Content-Type", contentTypePlain)
	}, body, true)
}

// Status returns the status code sent, 0 before any write
func (rw *ResponseWriter) Status() int {
	return rw.status
}

// Written reports whether a response was sent
func (rw *ResponseWriter) Written() bool {
	return rw.status != 0
}

// write frames status line, headers, optional Content-Length and body
func (rw *ResponseWriter) write(code int, headers func([]byte) []byte, body []byte, sized bool) error {
	if rw.Written() {
		return ErrAlreadyWritten
	}
	rw.status = code

	buf := bufferPool.Get(256 + len(body))
	defer bufferPool.Put(buf)

	b := *buf
	b = append(b, "HTTP/1.1 "...)
	b = strconv.AppendInt(b, int64(code), 10)
	b = append(b, ' ')
	b = append(b, statusText(code)...)
	b = append(b, "\r\n"...)
	b = headers(b)
	if sized {
		b = append(b, "Content-Length: "...)
		b = strconv.AppendInt(b, int64(len(body)), 10)
		b = append(b, "\r\n"...)
	}
	b = append(b, "\r\n"...)
	b = append(b, body...)
	*buf = b

	_, err := rw.w.Write(b)
	return err
}

func appendHeader(b []byte, name, value string) []byte {
	b = append(b, name...)
	b = append(b, ": "...)
	b = append(b, value...)
	return append(b, "\r\n"...)
}

// statusText returns the HTTP status text for the given code
func statusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 302:
		return "Found"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 413:
		return "Payload Too Large"
	case 500:
		return "Internal Server Error"
	default:
		return "Unknown"
	}
}
