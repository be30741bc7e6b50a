package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentController struct {
	logs *zap.SugaredLogger
	uc   ForumUseCase
}

func NewCommentController(logs *zap.SugaredLogger, uc ForumUseCase) *CommentController {
	return &CommentController{logs: logs, uc: uc}
}

func (ctl *CommentController) AddComment(c *gin.Context) {
	postID, valid := pathID(c)
	if !valid {
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c)
		return
	}
	id, err := ctl.uc.AddComment(c.Request.Context(), postID, req.Content)
	if err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusCreated, "Your comment was added.", gin.H{"id": id})
}

func (ctl *CommentController) GetComment(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	comment, err := ctl.uc.GetComment(c.Request.Context(), id)
	if err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusOK, "", comment)
}

func (ctl *CommentController) EditComment(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c)
		return
	}
	if err := ctl.uc.EditComment(c.Request.Context(), id, req.Content); err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusOK, "The comment has been saved.", nil)
}

func (ctl *CommentController) DeleteComment(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := ctl.uc.DeleteComment(c.Request.Context(), id); err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusOK, "The comment has been deleted.", nil)
}
