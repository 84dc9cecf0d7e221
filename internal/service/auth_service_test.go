package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/model"
)

func TestAuthService_SignupLogin(t *testing.T) {
	e := newEnv(t, false)

	u, err := e.auth.Signup(e.ctx, form.SignupInput{Username: "leo", Email: "leo@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	_, err = e.auth.Signup(e.ctx, form.SignupInput{Username: "leo", Password: "other-pass"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = e.auth.Signup(e.ctx, form.SignupInput{Username: "new", Password: "secret123"})
	var ferrs form.Errors
	assert.True(t, errors.As(err, &ferrs))

	token, got, err := e.auth.Login(e.ctx, form.LoginInput{Username: "leo", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	current := e.auth.Authenticate(e.ctx, token)
	assert.True(t, current.IsAuthenticated())
	assert.Equal(t, "leo", current.Username)

	_, _, err = e.auth.Login(e.ctx, form.LoginInput{Username: "leo", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = e.auth.Login(e.ctx, form.LoginInput{Username: "ghost", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AuthenticateRejects(t *testing.T) {
	e := newEnv(t, false)
	u, err := e.auth.Signup(e.ctx, form.SignupInput{Username: "leo", Password: "secret123"})
	require.NoError(t, err)

	assert.Same(t, model.AnonymousUser, e.auth.Authenticate(e.ctx, ""))
	assert.Same(t, model.AnonymousUser, e.auth.Authenticate(e.ctx, "garbage"))

	forged, err := NewAuthService(nil, AuthConfig{Secret: []byte("other"), Issuer: "yatube"}).IssueToken(u)
	require.NoError(t, err)
	assert.Same(t, model.AnonymousUser, e.auth.Authenticate(e.ctx, forged))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "yatube",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	assert.Same(t, model.AnonymousUser, e.auth.Authenticate(e.ctx, signed))

	ghost, err := e.auth.IssueToken(&model.User{ID: 999})
	require.NoError(t, err)
	assert.Same(t, model.AnonymousUser, e.auth.Authenticate(e.ctx, ghost))
}
