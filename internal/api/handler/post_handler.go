package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/middleware"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Index 首页，全部帖子
// @Summary 全部帖子
// @Tags 帖子
// @Produce json
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.FeedPage}
// @Router / [get]
func (h *Handler) Index(c *gin.Context) {
	p, err := h.feed.Page(c.Request.Context(), service.AllPosts(), page(c))
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	h.withImages(p.Posts...)
	response.Render(c, tplIndex, gin.H{"page": p})
}

// GroupPosts 社区帖子
// @Summary 社区帖子
// @Tags 帖子
// @Produce json
// @Param slug path string true "社区 slug"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response{data=service.FeedPage}
// @Failure 404 {object} response.Response
// @Router /group/{slug}/ [get]
func (h *Handler) GroupPosts(c *gin.Context) {
	p, err := h.feed.Page(c.Request.Context(), service.GroupPosts(c.Param("slug")), page(c))
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	h.withImages(p.Posts...)
	response.Render(c, tplGroup, gin.H{"group": p.Group, "page": p})
}

// Profile 用户主页
// @Summary 用户主页
// @Tags 帖子
// @Produce json
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /{username}/ [get]
func (h *Handler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.feed.Page(ctx, service.AuthorPosts(c.Param("username")), page(c))
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	viewer := middleware.CurrentUser(c)
	following, err := h.relService.IsFollowing(ctx, viewer.ID, p.Author.ID)
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	counts, err := h.relService.Counts(ctx, p.Author.ID)
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	h.withImages(p.Posts...)
	response.Render(c, tplProfile, gin.H{
		"author":    p.Author,
		"page":      p,
		"following": following,
		"counts":    counts,
		"is_self":   viewer.IsAuthenticated() && viewer.ID == p.Author.ID,
	})
}

// PostDetail 帖子详情与评论
// @Summary 帖子详情
// @Tags 帖子
// @Produce json
// @Param username path string true "作者"
// @Param post_id path int true "帖子ID"
// @Success 200 {object} response.Response{data=service.PostDetail}
// @Failure 404 {object} response.Response
// @Router /{username}/{post_id}/ [get]
func (h *Handler) PostDetail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	detail, err := h.comments.ViewPostDetail(c.Request.Context(), middleware.CurrentUser(c), c.Param("username"), id)
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	h.withImages(detail.Post)
	response.Render(c, tplPostDetail, gin.H{"detail": detail, "form": form.CommentInput{}})
}

// NewPostForm 发帖表单
// @Summary 发帖表单
// @Tags 帖子
// @Produce json
// @Success 200 {object} response.Response
// @Success 302 "未登录跳转登录页"
// @Router /new/ [get]
func (h *Handler) NewPostForm(c *gin.Context) {
	h.renderPostForm(c, form.PostInput{}, nil, nil)
}

// CreatePost 发帖
// @Summary 发帖
// @Tags 帖子
// @Accept multipart/form-data
// @Produce json
// @Param text formData string true "正文"
// @Param group formData int false "社区ID"
// @Param image formData file false "图片"
// @Success 302 "跳转首页"
// @Failure 400 {object} response.Response
// @Router /new/ [post]
func (h *Handler) CreatePost(c *gin.Context) {
	in, image, err := bindPost(c)
	if err == nil {
		_, err = h.posts.Create(c.Request.Context(), middleware.CurrentUser(c), in, image)
	}
	if err != nil {
		h.renderPostForm(c, in, nil, err)
		return
	}
	response.Redirect(c, "/")
}

// EditPostForm 编辑表单，非作者跳回详情页
// @Summary 编辑表单
// @Tags 帖子
// @Produce json
// @Param username path string true "作者"
// @Param post_id path int true "帖子ID"
// @Success 200 {object} response.Response
// @Success 302 "非作者跳转详情页"
// @Failure 404 {object} response.Response
// @Router /{username}/{post_id}/edit/ [get]
func (h *Handler) EditPostForm(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	username := c.Param("username")
	post, err := h.posts.Get(c.Request.Context(), username, id)
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	if !service.CanEdit(middleware.CurrentUser(c), post) {
		response.Redirect(c, postURL(username, id))
		return
	}
	h.renderPostForm(c, form.PostInput{Text: post.Text, GroupID: post.GroupID}, post, nil)
}

// UpdatePost 保存编辑
// @Summary 编辑帖子
// @Tags 帖子
// @Accept multipart/form-data
// @Produce json
// @Param username path string true "作者"
// @Param post_id path int true "帖子ID"
// @Param text formData string true "正文"
// @Param group formData int false "社区ID"
// @Param image formData file false "图片"
// @Success 302 "跳转详情页"
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /{username}/{post_id}/edit/ [post]
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	username := c.Param("username")
	actor := middleware.CurrentUser(c)

	// 先确认帖子存在且当前用户是作者，再看表单
	post, err := h.posts.Get(ctx, username, id)
	if err != nil {
		h.fail(c, err, "", nil)
		return
	}
	if !service.CanEdit(actor, post) {
		response.Redirect(c, postURL(username, id))
		return
	}

	in, image, err := bindPost(c)
	if err == nil {
		var updated *model.Post
		updated, err = h.posts.Update(ctx, actor, username, id, in, image)
		if updated != nil {
			post = updated
		}
	}
	switch {
	case err == nil, errors.Is(err, service.ErrForbidden):
		response.Redirect(c, postURL(username, id))
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c)
	default:
		h.renderPostForm(c, in, post, err)
	}
}

// renderPostForm 渲染发帖表单；post 不为空时是编辑模式，err 不为空时按失败处理
func (h *Handler) renderPostForm(c *gin.Context, in form.PostInput, post *model.Post, err error) {
	groups, gerr := h.groups.List(c.Request.Context())
	if gerr != nil {
		h.fail(c, gerr, "", nil)
		return
	}
	data := gin.H{"form": in, "groups": groups, "is_edit": post != nil}
	if post != nil {
		h.withImages(post)
		data["post"] = post
	}
	if err != nil {
		h.fail(c, err, tplPostForm, data)
		return
	}
	response.Render(c, tplPostForm, data)
}

// bindPost 读取表单字段与可选图片
func bindPost(c *gin.Context) (form.PostInput, *multipart.FileHeader, error) {
	var in form.PostInput
	if err := bindForm(c, &in); err != nil {
		return in, nil, err
	}
	// 下拉框的空选项
	if in.GroupID != nil && *in.GroupID == 0 {
		in.GroupID = nil
	}
	image, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return in, nil, nil
		}
		return in, nil, form.FieldErr("image", "invalid", err.Error())
	}
	return in, image, nil
}
