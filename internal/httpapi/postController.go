package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostController struct {
	logs *zap.SugaredLogger
	uc   ForumUseCase
}

func NewPostController(logs *zap.SugaredLogger, uc ForumUseCase) *PostController {
	return &PostController{logs: logs, uc: uc}
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	page, err := ctl.uc.ListPosts(c.Request.Context(), c.Query("page"))
	if err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusOK, "", page)
}

func (ctl *PostController) GetPost(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	view, err := ctl.uc.GetPost(c.Request.Context(), id, c.Query("comments_page"))
	if err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusOK, "", view)
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c)
		return
	}
	id, err := ctl.uc.CreatePost(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusCreated, "Yay! The post was created.", gin.H{"id": id})
}

func (ctl *PostController) EditPost(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c)
		return
	}
	if err := ctl.uc.EditPost(c.Request.Context(), id, req.Content); err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusOK, "The post has been saved.", nil)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := ctl.uc.DeletePost(c.Request.Context(), id); err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusOK, "The post has been deleted.", nil)
}
