package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/middleware"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

// LoginForm 登录页
// @Summary 登录页
// @Tags 用户
// @Produce json
// @Param next query string false "登录后跳转地址"
// @Success 200 {object} response.Response
// @Router /auth/login/ [get]
func (h *Handler) LoginForm(c *gin.Context) {
	response.Render(c, tplLogin, gin.H{"next": middleware.SafeNext(c.Query("next"))})
}

// Login 登录，写入会话 cookie
// @Summary 登录
// @Tags 用户
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Param next query string false "登录后跳转地址"
// @Success 302 "跳转 next"
// @Failure 400 {object} response.Response
// @Router /auth/login/ [post]
func (h *Handler) Login(c *gin.Context) {
	next := middleware.SafeNext(c.DefaultPostForm("next", c.Query("next")))
	var in form.LoginInput
	var token string
	err := bindForm(c, &in)
	if err == nil {
		token, _, err = h.auth.Login(c.Request.Context(), in)
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		err = form.FieldErr("", "invalid_login", "Please enter a correct username and password.")
	}
	if err != nil {
		h.fail(c, err, tplLogin, gin.H{"next": next, "form": gin.H{"username": in.Username}})
		return
	}
	h.setSession(c, token)
	response.Redirect(c, next)
}

// SignupForm 注册页
// @Summary 注册页
// @Tags 用户
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/signup/ [get]
func (h *Handler) SignupForm(c *gin.Context) {
	response.Render(c, tplSignup, gin.H{"form": form.SignupInput{}})
}

// Signup 注册并直接登录
// @Summary 注册
// @Tags 用户
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param email formData string false "邮箱"
// @Param password formData string true "密码"
// @Success 302 "跳转首页"
// @Failure 400 {object} response.Response
// @Router /auth/signup/ [post]
func (h *Handler) Signup(c *gin.Context) {
	var in form.SignupInput
	var user *model.User
	err := bindForm(c, &in)
	if err == nil {
		user, err = h.auth.Signup(c.Request.Context(), in)
	}
	if errors.Is(err, service.ErrUsernameTaken) {
		err = form.FieldErr("username", "unique", "A user with that username already exists.")
	}
	if err != nil {
		h.fail(c, err, tplSignup, gin.H{"form": gin.H{"username": in.Username, "email": in.Email}})
		return
	}
	token, err := h.auth.IssueToken(user)
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	h.setSession(c, token)
	response.Redirect(c, "/")
}

// Logout 清除会话
// @Summary 退出登录
// @Tags 用户
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout/ [post]
func (h *Handler) Logout(c *gin.Context) {
	h.clearSession(c)
	response.Render(c, tplLoggedOut, nil)
}
