package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/middleware"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Follow 关注作者，完成后回到作者主页
// @Summary 关注作者
// @Tags 关系链
// @Produce json
// @Param username path string true "作者用户名"
// @Success 302 "跳转作者主页"
// @Failure 404 {object} response.Response
// @Router /{username}/follow/ [post]
func (h *Handler) Follow(c *gin.Context) {
	username := c.Param("username")
	if err := h.relService.Follow(c.Request.Context(), middleware.CurrentUser(c), username); err != nil {
		h.fail(c, err, "", nil)
		return
	}
	response.Redirect(c, "/"+username+"/")
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Param username path string true "作者用户名"
// @Success 302 "跳转作者主页"
// @Failure 404 {object} response.Response
// @Router /{username}/unfollow/ [post]
func (h *Handler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	if err := h.relService.Unfollow(c.Request.Context(), middleware.CurrentUser(c), username); err != nil {
		h.fail(c, err, "", nil)
		return
	}
	response.Redirect(c, "/"+username+"/")
}

// FollowIndex 订阅的作者的帖子
// @Summary 关注流
// @Tags 关系链
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.FeedPage}
// @Success 302 "未登录跳转登录页"
// @Router /follow/ [get]
func (h *Handler) FollowIndex(c *gin.Context) {
	p, err := h.relService.Feed(c.Request.Context(), middleware.CurrentUser(c), page(c))
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	h.withImages(p.Posts...)
	response.Render(c, tplFollow, gin.H{"page": p})
}

// ListFollowers 查询某用户的粉丝
// @Summary 粉丝列表
// @Tags 关系链
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.UserPage}
// @Failure 404 {object} response.Response
// @Router /{username}/followers/ [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	author, list, err := h.relService.Followers(c.Request.Context(), c.Param("username"), page(c))
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	response.Render(c, tplFollowers, gin.H{"author": author, "page": list})
}

// ListFollowing 查询某用户关注的人
// @Summary 关注列表
// @Tags 关系链
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.UserPage}
// @Failure 404 {object} response.Response
// @Router /{username}/following/ [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	author, list, err := h.relService.Following(c.Request.Context(), c.Param("username"), page(c))
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	response.Render(c, tplFollowing, gin.H{"author": author, "page": list})
}
