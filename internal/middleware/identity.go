package middleware

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

const currentUserKey = "current_user"

// Identity resolves the requesting user from the session cookie or a
// Bearer token. Requests without valid credentials get model.AnonymousUser.
func Identity(auth service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(cookieName)
		}
		c.Set(currentUserKey, auth.Authenticate(c.Request.Context(), token))
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// CurrentUser never returns nil.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*model.User); ok && u != nil {
			return u
		}
	}
	return model.AnonymousUser
}

// SetCurrentUser is used by tests and by the login handler.
func SetCurrentUser(c *gin.Context, u *model.User) { c.Set(currentUserKey, u) }

// LoginRequired sends anonymous requests to loginURL with the original
// request URI in ?next=.
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c).IsAuthenticated() {
			c.Next()
			return
		}
		response.Redirect(c, LoginRedirect(loginURL, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginRedirect builds "<loginURL>?next=<next>" leaving slashes unescaped.
func LoginRedirect(loginURL, next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + escaped
}

// SafeNext accepts only local absolute paths as post-login targets.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
