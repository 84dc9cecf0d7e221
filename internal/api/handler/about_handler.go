package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/pkg/response"
)

const (
	tplAboutAuthor = "about/author.html"
	tplAboutTech   = "about/tech.html"
)

// AboutAuthor 关于作者
// @Summary 关于作者
// @Tags 静态页
// @Produce json
// @Success 200 {object} response.Response
// @Router /about/author/ [get]
func (h *Handler) AboutAuthor(c *gin.Context) {
	response.Render(c, tplAboutAuthor, nil)
}

// AboutTech 技术栈
// @Summary 技术栈
// @Tags 静态页
// @Produce json
// @Success 200 {object} response.Response
// @Router /about/tech/ [get]
func (h *Handler) AboutTech(c *gin.Context) {
	response.Render(c, tplAboutTech, nil)
}
