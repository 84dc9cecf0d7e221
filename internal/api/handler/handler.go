package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/middleware"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/response"
)

// 模板标识，由渲染端解释
const (
	tplIndex      = "posts/index.html"
	tplGroup      = "posts/group_list.html"
	tplProfile    = "posts/profile.html"
	tplPostDetail = "posts/post_detail.html"
	tplPostForm   = "posts/create_post.html"
	tplFollow     = "posts/follow.html"
	tplFollowers  = "posts/followers.html"
	tplFollowing  = "posts/following.html"
	tplLogin      = "users/login.html"
	tplSignup     = "users/signup.html"
	tplLoggedOut  = "users/logged_out.html"
)

// SessionConfig describes the session cookie set at login.
type SessionConfig struct {
	CookieName string
	Secure     bool
	TTL        time.Duration
	LoginURL   string
}

type Handler struct {
	feed       service.FeedService
	posts      service.PostService
	comments   service.CommentService
	relService service.RelationshipService
	groups     service.GroupService
	auth       service.AuthService
	media      storage.MediaStorage
	session    SessionConfig
}

func NewHandler(
	feed service.FeedService,
	posts service.PostService,
	comments service.CommentService,
	relService service.RelationshipService,
	groups service.GroupService,
	auth service.AuthService,
	media storage.MediaStorage,
	session SessionConfig,
) *Handler {
	return &Handler{
		feed:       feed,
		posts:      posts,
		comments:   comments,
		relService: relService,
		groups:     groups,
		auth:       auth,
		media:      media,
		session:    session,
	}
}

// fail 把服务层错误映射成响应。template/data 用于表单校验失败时重新渲染。
func (h *Handler) fail(c *gin.Context, err error, template string, data gin.H) {
	var ferrs form.Errors
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c)
	case errors.As(err, &ferrs):
		if data == nil {
			data = gin.H{}
		}
		data["errors"] = ferrs
		response.ValidationFailed(c, template, data)
	case errors.Is(err, service.ErrUnauthenticated):
		response.Redirect(c, middleware.LoginRedirect(h.session.LoginURL, c.Request.URL.RequestURI()))
	default:
		logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		response.InternalError(c, err)
	}
}

// bindForm 绑定请求体；无法解析时作为非字段错误交给表单重新渲染
func bindForm(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBind(dst); err != nil {
		return form.FieldErr("", "invalid", err.Error())
	}
	return nil
}

func page(c *gin.Context) int {
	return service.ParsePage(c.DefaultQuery("page", "1"))
}

// postID 解析路径里的帖子 id，非法时按不存在处理
func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c)
		return 0, false
	}
	return uint(id), true
}

func postURL(username string, id uint) string {
	return "/" + username + "/" + strconv.FormatUint(uint64(id), 10) + "/"
}

func (h *Handler) withImages(posts ...*model.Post) {
	for _, p := range posts {
		if p != nil && p.Image != "" {
			p.ImageURL = h.media.URL(p.Image)
		}
	}
}

func (h *Handler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, token, int(h.session.TTL.Seconds()), "/", "", h.session.Secure, true)
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.Secure, true)
}

// Healthz 存活检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// NotFound 未匹配的路由
func (h *Handler) NotFound(c *gin.Context) {
	response.NotFound(c)
}
