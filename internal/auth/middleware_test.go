package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	private := newTestGate(t, Options{Password: "pw"})
	public := newTestGate(t, Options{Password: "pw", PublicMode: true})

	privateToken, err := private.GenToken()
	require.NoError(t, err)

	tests := []struct {
		name        string
		gate        *Gate
		middleware  func(*Gate) echo.MiddlewareFunc
		cookie      string
		basicAuth   string
		wantStatus  int
		wantMessage string
	}{
		{name: "session without cookie", gate: private, middleware: RequireSession, wantStatus: http.StatusUnauthorized, wantMessage: msgNotLoggedIn},
		{name: "session with cookie", gate: private, middleware: RequireSession, cookie: privateToken, wantStatus: http.StatusOK},
		{name: "session with bad cookie", gate: private, middleware: RequireSession, cookie: "invalid", wantStatus: http.StatusUnauthorized},
		{name: "session with basic auth", gate: private, middleware: RequireSession, basicAuth: "pw", wantStatus: http.StatusOK},
		{name: "session with wrong basic auth", gate: private, middleware: RequireSession, basicAuth: "nope", wantStatus: http.StatusUnauthorized},
		{name: "session in public mode", gate: public, middleware: RequireSession, wantStatus: http.StatusUnauthorized, wantMessage: msgPublicMode},
		{name: "creator without cookie", gate: private, middleware: RequireCreator, wantStatus: http.StatusUnauthorized, wantMessage: msgNotLoggedIn},
		{name: "creator with cookie", gate: private, middleware: RequireCreator, cookie: privateToken, wantStatus: http.StatusOK},
		{name: "creator in public mode", gate: public, middleware: RequireCreator, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/all", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: tt.cookie})
			}
			if tt.basicAuth != "" {
				req.SetBasicAuth("admin", tt.basicAuth)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := tt.middleware(tt.gate)(ok)(c)
			if tt.wantStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.wantStatus, httpErr.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, httpErr.Message)
			}
		})
	}
}

func TestMiddleware_BasicAuthSetsCookie(t *testing.T) {
	gate := newTestGate(t, Options{Password: "pw"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/all", nil)
	req.SetBasicAuth("anyone", "pw")
	rec := httptest.NewRecorder()

	err := RequireSession(gate)(func(c echo.Context) error { return nil })(e.NewContext(req, rec))
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.True(t, gate.Validate(cookies[0].Value))
}
