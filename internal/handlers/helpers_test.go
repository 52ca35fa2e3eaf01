package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"miniblog/internal/db"
	"miniblog/internal/logger"
	"miniblog/internal/middleware"
	"miniblog/internal/router"
	"miniblog/internal/session"
	"miniblog/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires the real router against an in-memory database.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := g.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	db.DB = g
	require.NoError(t, db.Migrate(g))

	// The page cache is process-wide; drop anything a previous test
	// cached against its own database.
	utils.GetCache().Purge()

	r := gin.New()
	store := memstore.NewStore([]byte("test-secret"))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   session.MaxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	r.Use(sessions.Sessions(session.CookieName, store))
	r.HTMLRender = router.LoadTemplates("../../web/templates")
	r.Use(middleware.CSPNonce())
	r.Use(middleware.LoadUser())
	router.RegisterRoutes(r, logger.New(0))

	return r
}

// client is a cookie-keeping test browser.
type client struct {
	t       *testing.T
	r       *gin.Engine
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, r *gin.Engine) *client {
	return &client{t: t, r: r, cookies: make(map[string]*http.Cookie)}
}

func (cl *client) do(method, path string, form url.Values, header map[string]string) *httptest.ResponseRecorder {
	cl.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	for _, c := range cl.cookies {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}

	w := httptest.NewRecorder()
	cl.r.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		cl.cookies[c.Name] = c
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(http.MethodGet, path, nil, nil)
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return cl.do(http.MethodPost, path, form, nil)
}

var csrfRe = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// csrfToken reads the session's CSRF token off the new-post form.
func (cl *client) csrfToken() string {
	cl.t.Helper()
	w := cl.get("/newpost")
	require.Equal(cl.t, http.StatusOK, w.Code)
	m := csrfRe.FindStringSubmatch(w.Body.String())
	require.NotNil(cl.t, m, "no csrf token on the new-post page")
	return m[1]
}

// register creates an account through the real endpoint.
func (cl *client) register(firstName, email, password string) {
	cl.t.Helper()
	w := cl.postForm("/register", url.Values{
		"firstName": {firstName},
		"username":  {email},
		"password":  {password},
	})
	require.Equal(cl.t, http.StatusFound, w.Code)
}

// login authenticates through the real endpoint.
func (cl *client) login(email, password string) {
	cl.t.Helper()
	w := cl.postForm("/login", url.Values{
		"username": {email},
		"password": {password},
	})
	require.Equal(cl.t, http.StatusFound, w.Code)
	require.Equal(cl.t, "/", w.Header().Get("Location"))
}

func (cl *client) createPost(title, content string) {
	cl.t.Helper()
	w := cl.postForm("/newpost", url.Values{
		"csrf_token": {cl.csrfToken()},
		"title":      {title},
		"content":    {content},
	})
	require.Equal(cl.t, http.StatusFound, w.Code)
}
