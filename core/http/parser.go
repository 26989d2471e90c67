package http

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxLineSize bounds the request line and each header line, terminator included
const MaxLineSize = 8 << 10

var (
	ErrEmptyRequest         = errors.New("empty request")
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrMalformedHeader      = errors.New("malformed header line")
	ErrLineTooLong          = errors.New("line too long")
)

// RequestLine is the parsed first line of a request
type RequestLine struct {
	Method Method
	Path   string
	Proto  string

	// Query holds the inline query string parameters (never set for POST)
	Query Values
}

// ParseRequestLine parses "METHOD TARGET VERSION".
// POST targets are taken verbatim: their parameters always come from the body.
func ParseRequestLine(line string) (RequestLine, error) {
	tokens := strings.Split(line, " ")
	if len(tokens) != 3 || tokens[0] == "" || tokens[1] == "" {
		return RequestLine{}, fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	rl := RequestLine{
		Method: Method(tokens[0]),
		Path:   tokens[1],
		Proto:  tokens[2],
		Query:  make(Values),
	}
	if rl.Method == MethodPost {
		return rl, nil
	}

	if path, query, ok := strings.Cut(rl.Path, "?"); ok {
		rl.Path = path
		rl.Query = ParseQueryString(query)
	}
	return rl, nil
}

// Header is an ordered name->value mapping. Names keep their exact case;
// setting an existing name overwrites its value but keeps its position.
type Header struct {
	names  []string
	values map[string]string
}

// NewHeader creates an empty header block
func NewHeader() Header {
	return Header{values: make(map[string]string)}
}

// Set stores value under name
func (h *Header) Set(name, value string) {
	if h.values == nil {
		h.values = make(map[string]string)
	}
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = value
}

// Get returns the value for name and whether it was present
func (h Header) Get(name string) (string, bool) {
	v, ok := h.values[name]
	return v, ok
}

// Names returns header names in first-seen order
func (h Header) Names() []string {
	return append([]string(nil), h.names...)
}

// Len returns the number of distinct header names
func (h Header) Len() int {
	return len(h.names)
}

// ReadHeaders reads header lines up to the first empty line or end of stream.
// It returns the headers and the number of raw lines consumed, blank line included.
// A line without ':' fails the whole block with ErrMalformedHeader.
func ReadHeaders(r *bufio.Reader) (Header, int, error) {
	h := NewHeader()
	consumed := 0

	for {
		line, err := readLine(r)
		if err == io.EOF {
			return h, consumed, nil
		}
		if errors.Is(err, ErrLineTooLong) {
			return h, consumed, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
		}
		if err != nil {
			return h, consumed, err
		}
		consumed++

		if line == "" {
			return h, consumed, nil
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return h, consumed, fmt.Errorf("%w: %q", ErrMalformedHeader, line)
		}
		h.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
}

// readLine reads one line without its CRLF or LF terminator.
// A final unterminated line is returned as-is; io.EOF only when nothing was read.
// Lines longer than MaxLineSize fail with ErrLineTooLong.
func readLine(r *bufio.Reader) (string, error) {
	var buf []byte
	for {
		chunk, err := r.ReadSlice('\n')
		if len(buf)+len(chunk) > MaxLineSize {
			return "", fmt.Errorf("%w: over %d bytes", ErrLineTooLong, MaxLineSize)
		}
		buf = append(buf, chunk...)

		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(buf) > 0:
			return string(buf), nil
		case err != nil:
			return "", err
		}

		line := strings.TrimSuffix(string(buf), "\n")
		return strings.TrimSuffix(line, "\r"), nil
	}
}
