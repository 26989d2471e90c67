// Package handler holds the sign-up, login and user-list actions and
// the static file fallback.
package handler

import (
	"errors"
	"html"
	"strings"

	"github.com/searchktools/login-server/core/http"
	"github.com/searchktools/login-server/core/middleware"
	"github.com/searchktools/login-server/core/router"
	"github.com/searchktools/login-server/static"
	"github.com/searchktools/login-server/user"
)

// Page paths served from the file store
const (
	IndexPage       = "/index.html"
	LoginPage       = "/user/login.html"
	LoginFailedPage = "/user/login_failed.html"
)

// UserStore is the user collaborator. Implementations must be safe for
// concurrent use.
type UserStore interface {
	Add(u user.User)
	FindAll() []user.User
	IsValid(id, password string) bool
}

// FileStore resolves request paths against the document root
type FileStore interface {
	ReadFile(path string) ([]byte, error)
}

// Handler implements the routed actions
type Handler struct {
	users UserStore
	files FileStore
}

// New creates a Handler over its collaborators
func New(users UserStore, files FileStore) *Handler {
	return &Handler{users: users, files: files}
}

// Register installs the dispatch table on r
func (h *Handler) Register(r *router.Router) {
	r.GET("/user/list", middleware.NewPipeline().
		Use(middleware.RequireSession(LoginPage)).
		Then(h.ListUsers))
	r.POST("/user/create", h.CreateUser)
	r.POST("/user/login", h.Login)
	r.Fallback(http.MethodGet, h.ServeFile)
}

// ServeFile answers GET with the file at the request path
func (h *Handler) ServeFile(ctx *http.Context) {
	body, ok := h.readPage(ctx, ctx.Path())
	if !ok {
		return
	}
	ctx.OK(body)
}

// CreateUser registers the user from the form body and redirects home
func (h *Handler) CreateUser(ctx *http.Context) {
	u, err := user.FromParams(ctx.Request().Parameters())
	if err != nil {
		ctx.Logger().Warn().Err(err).Msg("create user")
		ctx.Error(400)
		return
	}

	h.users.Add(u)
	ctx.Logger().Info().Stringer("user", u).Msg("user created")
	ctx.Redirect(IndexPage)
}

// Login validates credentials and answers with the session cookie
func (h *Handler) Login(ctx *http.Context) {
	req := ctx.Request()
	authenticated := h.users.IsValid(req.Parameter("userId"), req.Parameter("password"))
	ctx.Logger().Info().
		Str("user_id", req.Parameter("userId")).
		Bool("authenticated", authenticated).
		Msg("login")

	page := LoginFailedPage
	if authenticated {
		page = IndexPage
	}
	body, ok := h.readPage(ctx, page)
	if !ok {
		return
	}
	ctx.LoginResult(authenticated, body)
}

// ListUsers renders every stored user as a table row
func (h *Handler) ListUsers(ctx *http.Context) {
	ctx.OK([]byte(renderUserList(h.users.FindAll())))
}

// readPage loads path, answering 404 or 500 itself on failure
func (h *Handler) readPage(ctx *http.Context, path string) ([]byte, bool) {
	body, err := h.files.ReadFile(path)
	if err == nil {
		return body, true
	}

	if errors.Is(err, static.ErrNotFound) {
		ctx.Logger().Debug().Err(err).Msg("page not found")
		ctx.Error(404)
	} else {
		ctx.Logger().Error().Err(err).Str("page", path).Msg("read page")
		ctx.Error(500)
	}
	return nil, false
}

func renderUserList(users []user.User) string {
	var sb strings.Builder
	sb.WriteString("<html>")
	sb.WriteString("<head><title>User List</title></head>")
	sb.WriteString("<body>")
	sb.WriteString("<h1>User List</h1>")
	sb.WriteString(`<table border="1">`)
	sb.WriteString("<tr><th>ID</th><th>Name</th><th>Email</th></tr>")
	for _, u := range users {
		sb.WriteString("<tr>")
		for _, col := range [...]string{u.UserID, u.Name, u.Email} {
			sb.WriteString("<td>")
			sb.WriteString(html.EscapeString(col))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
	sb.WriteString("</body>")
	sb.WriteString("</html>")
	return sb.String()
}
