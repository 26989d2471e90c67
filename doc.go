/*
Package loginserver is a small HTTP/1.1 server that parses requests by hand,
frames responses byte for byte and keeps login state in a client cookie.

Each accepted connection is served by its own goroutine: one request is read,
dispatched and answered, then the connection is closed.

Quick Start

	go run ./cmd/webserver -port 8080 -webroot ./webapp

Then open http://localhost:8080/index.html, sign up, log in and visit
/user/list.

Routes

  - GET  /user/list    user table when the logined cookie is true, else 302 to /user/login.html
  - GET  /<file>       static file under the web root, 404 when missing
  - POST /user/create  registers the form user, 302 to /index.html
  - POST /user/login   sets logined=true|false and returns the index or failure page

Modules

  - app: Application lifecycle, logger setup and graceful shutdown
  - config: Flag and environment configuration
  - core: Connection engine (accept loop, one goroutine per connection)
  - core/http: Request parsing, query/cookie codec, response framing
  - core/router: (method, path) dispatch table with per-method fallback
  - core/middleware: Middleware pipeline, request logging, session guard
  - core/pools: Response buffer pool
  - handler: Sign-up, login, user list and static file actions
  - static: Document root file store
  - user: User model and concurrent in-memory store

Limits

Query strings and form bodies are not URL-decoded. Chunked bodies, keep-alive,
HTTP/2, TLS and multipart forms are not supported.
*/
package loginserver
