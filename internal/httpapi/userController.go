package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	logs *zap.SugaredLogger
	uc   ForumUseCase
}

func NewUserController(logs *zap.SugaredLogger, uc ForumUseCase) *UserController {
	return &UserController{logs: logs, uc: uc}
}

func (ctl *UserController) SignIn(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c)
		return
	}
	sess, err := ctl.uc.SignIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusOK, "Welcome!", sess)
}

func (ctl *UserController) Profile(c *gin.Context) {
	page, err := ctl.uc.Profile(c.Request.Context(), c.Query("page"))
	if err != nil {
		fail(c, ctl.logs, err)
		return
	}
	ok(c, http.StatusOK, "", page)
}
