package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectdesk/internal/core/auth"
	"projectdesk/internal/domain"
	resp "projectdesk/internal/transport/http/response"
)

type stubUserRepo struct {
	byID map[string]*domain.User
}

func (r *stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.byID[id], nil
}
func (r *stubUserRepo) FindByUsernameOrEmail(context.Context, string, string) (*domain.User, error) {
	return nil, nil
}
func (r *stubUserRepo) UpdateRefreshToken(context.Context, string, string) error { return nil }
func (r *stubUserRepo) SetActive(context.Context, string, bool) error            { return nil }
func (r *stubUserRepo) List(context.Context, string, int, int, bool) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func sessionFixture(t *testing.T, requireRole string) (*gin.Engine, *auth.Issuer, *stubUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	j := &auth.Issuer{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		Issuer:        "projectdesk-test",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
	users := &stubUserRepo{byID: map[string]*domain.User{
		"uid-1": {ID: "uid-1", Username: "alice", Role: "user", IsActive: true,
			PasswordHash: "hash", RefreshToken: "ref"},
	}}

	e := gin.New()
	e.GET("/protected", RequireAuth(j, users, requireRole), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		resp.OK(c, u)
	})
	return e, j, users
}

func do(e *gin.Engine, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingToken(t *testing.T) {
	e, _, _ := sessionFixture(t, "")
	w := do(e, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "access token missing")
}

func TestRequireAuthBearerToken(t *testing.T) {
	e, j, _ := sessionFixture(t, "")
	token, err := j.IssueAccess("uid-1", "user")
	require.NoError(t, err)

	w := do(e, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusOK, w.Code)
	// 塞进上下文的用户必须已脱敏
	assert.NotContains(t, w.Body.String(), "hash")
	assert.NotContains(t, w.Body.String(), `"ref"`)
}

func TestRequireAuthCookieBeatsHeader(t *testing.T) {
	e, j, _ := sessionFixture(t, "")
	token, err := j.IssueAccess("uid-1", "user")
	require.NoError(t, err)

	// cookie 有效时根本不看 Authorization 头
	w := do(e, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CookieAccessToken, Value: token})
		r.Header.Set("Authorization", "Bearer garbage")
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthExpiredMessage(t *testing.T) {
	e, j, _ := sessionFixture(t, "")
	j2 := *j
	j2.AccessTTL = -time.Second
	token, err := j2.IssueAccess("uid-1", "user")
	require.NoError(t, err)

	w := do(e, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "access token expired")
}

func TestRequireAuthMalformedMessage(t *testing.T) {
	e, _, _ := sessionFixture(t, "")
	w := do(e, func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-jwt") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid access token format")
}

func TestRequireAuthWrongSecretMessage(t *testing.T) {
	e, j, _ := sessionFixture(t, "")
	other := *j
	other.AccessSecret = []byte("some other secret entirely")
	token, err := other.IssueAccess("uid-1", "user")
	require.NoError(t, err)

	w := do(e, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid access token")
	assert.NotContains(t, w.Body.String(), "format")
}

func TestRequireAuthUnknownUser(t *testing.T) {
	e, j, _ := sessionFixture(t, "")
	token, err := j.IssueAccess("ghost", "user")
	require.NoError(t, err)

	w := do(e, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "user not found")
}

func TestRequireAuthRoleMismatch(t *testing.T) {
	e, j, _ := sessionFixture(t, "admin")
	token, err := j.IssueAccess("uid-1", "user")
	require.NoError(t, err)

	w := do(e, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuthRefreshTokenRejectedAsAccess(t *testing.T) {
	e, j, _ := sessionFixture(t, "")
	refresh, err := j.IssueRefresh("uid-1")
	require.NoError(t, err)

	w := do(e, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+refresh) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
