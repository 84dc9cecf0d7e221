package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/model"
)

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Signup(ctx context.Context, in form.SignupInput) (*model.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, in form.LoginInput) (string, *model.User, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *mockAuth) IssueToken(u *model.User) (string, error) {
	args := m.Called(u)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) Authenticate(ctx context.Context, token string) *model.User {
	return m.Called(ctx, token).Get(0).(*model.User)
}

func init() { gin.SetMode(gin.TestMode) }

func whoami(c *gin.Context) { c.String(http.StatusOK, CurrentUser(c).Username) }

func TestIdentity(t *testing.T) {
	auth := new(mockAuth)
	leo := &model.User{ID: 1, Username: "leo"}
	auth.On("Authenticate", mock.Anything, "cookie-token").Return(leo)
	auth.On("Authenticate", mock.Anything, "bearer-token").Return(leo)
	auth.On("Authenticate", mock.Anything, "").Return(model.AnonymousUser)

	r := gin.New()
	r.Use(Identity(auth, "yatube_session"))
	r.GET("/me", whoami)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "yatube_session", Value: "cookie-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "leo", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bearer-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "leo", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Empty(t, w.Body.String())

	auth.AssertExpectations(t)
}

func TestLoginRequired(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-User") != "" {
			SetCurrentUser(c, &model.User{ID: 5, Username: c.GetHeader("X-User")})
		}
	})
	r.GET("/new/", LoginRequired("/auth/login/"), whoami)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/new/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/new/", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/new/", nil)
	req.Header.Set("X-User", "leo")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "leo", w.Body.String())
}

func TestLoginRedirect(t *testing.T) {
	assert.Equal(t, "/auth/login/?next=/leo/1/comment/", LoginRedirect("/auth/login/", "/leo/1/comment/"))
	assert.Equal(t, "/auth/login/?next=/follow/%3Fpage%3D2", LoginRedirect("/auth/login/", "/follow/?page=2"))
	assert.Equal(t, "/login?x=1&next=/", LoginRedirect("/login?x=1", "/"))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/leo/", SafeNext("/leo/"))
	assert.Equal(t, "/", SafeNext(""))
	assert.Equal(t, "/", SafeNext("https://evil.example"))
	assert.Equal(t, "/", SafeNext("//evil.example"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "misc/500.html")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	l := NewIPRateLimiter(1, 2)
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	r := gin.New()
	r.Use(RateLimit(l))
	r.POST("/w", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/r", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/w", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{204, 204, 429}, codes)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/r", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	now = now.Add(time.Second)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/w", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
