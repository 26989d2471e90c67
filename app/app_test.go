package app

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/searchktools/login-server/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{
		Port:     8080,
		Host:     "localhost",
		WebRoot:  "../webapp",
		Env:      "production",
		LogLevel: "error",
	}
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.files.Close() })
	return a
}

func exchange(t *testing.T, a *App, raw string) (*nethttp.Response, []byte) {
	t.Helper()

	client, server := net.Pipe()
	go a.Engine().ServeConn(server)
	go client.Write([]byte(raw))

	resp, err := nethttp.ReadResponse(bufio.NewReader(client), nil)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	client.Close()
	return resp, body
}

func post(path, body, cookie string) string {
	return fmt.Sprintf("POST %s HTTP/1.1\r\nHost: localhost:8080\r\n%sContent-Length: %d\r\n\r\n%s", path, cookie, len(body), body)
}

// TestSignUpLoginList walks the whole flow against the bundled webapp
func TestSignUpLoginList(t *testing.T) {
	a := newTestApp(t)

	index, err := os.ReadFile("../webapp/index.html")
	require.NoError(t, err)
	failed, err := os.ReadFile("../webapp/user/login_failed.html")
	require.NoError(t, err)

	resp, body := exchange(t, a, "GET /index.html HTTP/1.1\r\n\r\n")
	require.Equal(t, 200, resp.StatusCode)
	require.Equal(t, index, body)

	resp, _ = exchange(t, a, "GET /user/list HTTP/1.1\r\n\r\n")
	require.Equal(t, 302, resp.StatusCode)
	require.Equal(t, "http://localhost:8080/user/login.html", resp.Header.Get("Location"))

	resp, _ = exchange(t, a, post("/user/create", "userId=javajigi&password=password&name=JaeSung&email=javajigi@slipp.net", ""))
	require.Equal(t, 302, resp.StatusCode)
	require.Equal(t, "http://localhost:8080/index.html", resp.Header.Get("Location"))
	require.Equal(t, 1, a.Users().Len())

	resp, body = exchange(t, a, post("/user/login", "userId=javajigi&password=nope", ""))
	require.Equal(t, []string{"logined=false"}, resp.Header["Set-Cookie"])
	require.Equal(t, failed, body)

	resp, body = exchange(t, a, post("/user/login", "userId=javajigi&password=password", ""))
	require.Equal(t, []string{"logined=true"}, resp.Header["Set-Cookie"])
	require.Equal(t, index, body)

	resp, body = exchange(t, a, "GET /user/list HTTP/1.1\r\nCookie: logined=true\r\n\r\n")
	require.Equal(t, 200, resp.StatusCode)
	require.Contains(t, string(body), "<tr><td>javajigi</td><td>JaeSung</td><td>javajigi@slipp.net</td></tr>")

	resp, _ = exchange(t, a, "GET /../go.mod HTTP/1.1\r\n\r\n")
	require.Equal(t, 404, resp.StatusCode)
}

// TestUnservedMethods tests that methods without routes get 405 before any handler runs
func TestUnservedMethods(t *testing.T) {
	a := newTestApp(t)

	for _, raw := range []string{
		"PUT /index.html HTTP/1.1\r\n\r\n",
		"DELETE /user/list HTTP/1.1\r\nCookie: logined=true\r\n\r\n",
		"HEAD /index.html HTTP/1.1\r\n\r\n",
	} {
		resp, _ := exchange(t, a, raw)
		require.Equal(t, 405, resp.StatusCode, raw)
	}
	require.Equal(t, 0, a.Users().Len())
}

func TestNewMissingWebRoot(t *testing.T) {
	_, err := New(&config.Config{Port: 8080, Host: "localhost", WebRoot: "./does-not-exist"})
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	logger := newLogger(&config.Config{Env: "production", LogLevel: "warn"}, &out)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), `"message":"shown"`)

	out.Reset()
	logger = newLogger(&config.Config{Env: "production", LogLevel: "bogus"}, &out)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")
	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), "shown")
}
