package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/middleware"
	"github.com/d60-Lab/yatube/pkg/response"
)

// AddComment 评论，成功后回到详情页（保留查询参数）
// @Summary 发表评论
// @Tags 评论
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username path string true "作者"
// @Param post_id path int true "帖子ID"
// @Param text formData string true "评论内容"
// @Success 302 "跳转详情页"
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /{username}/{post_id}/comment/ [post]
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	username := c.Param("username")
	actor := middleware.CurrentUser(c)

	post, err := h.posts.Get(ctx, username, id)
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}

	var in form.CommentInput
	if err := c.ShouldBind(&in); err != nil {
		in = form.CommentInput{}
	}
	if _, err := h.comments.AddComment(ctx, post, actor, in); err != nil {
		detail, derr := h.comments.ViewPostDetail(ctx, actor, username, id)
		if derr != nil {
			h.fail(c, derr, "", nil)
			return
		}
		h.withImages(detail.Post)
		h.fail(c, err, tplPostDetail, gin.H{"detail": detail, "form": in})
		return
	}
	response.Redirect(c, detailWithQuery(c, username, id))
}

// CommentRedirect GET 评论地址直接回到详情页
func (h *Handler) CommentRedirect(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	response.Redirect(c, detailWithQuery(c, c.Param("username"), id))
}

func detailWithQuery(c *gin.Context, username string, id uint) string {
	target := postURL(username, id)
	if q := c.Request.URL.RawQuery; q != "" {
		target += "?" + q
	}
	return target
}
