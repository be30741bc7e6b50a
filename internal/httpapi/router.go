package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"discussionForum/internal/auth"
	"discussionForum/internal/forum"
	"discussionForum/models"
)

// ForumUseCase is the inbound port served by the HTTP adapter.
type ForumUseCase interface {
	SignIn(ctx context.Context, username, password string) (*forum.Session, error)
	ListPosts(ctx context.Context, rawPage string) (*forum.PostPage, error)
	Profile(ctx context.Context, rawPage string) (*forum.PostPage, error)
	GetPost(ctx context.Context, id int64, rawCommentsPage string) (*forum.PostView, error)
	CreatePost(ctx context.Context, title, content string) (int64, error)
	EditPost(ctx context.Context, id int64, content string) error
	DeletePost(ctx context.Context, id int64) error
	AddComment(ctx context.Context, postID int64, content string) (int64, error)
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	EditComment(ctx context.Context, id int64, content string) error
	DeleteComment(ctx context.Context, id int64) error
}

const signInRoute = "POST /users/signin"

// SetupRoutes wires the forum use cases to JSON routes. Every route accepts an
// optional bearer session; the use cases decide whether one is required.
func SetupRoutes(logger *zap.SugaredLogger, uc ForumUseCase, tokens *auth.TokenIssuer) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logging(logger), Session(tokens, signInRoute))

	uctl := NewUserController(logger, uc)
	pctl := NewPostController(logger, uc)
	cctl := NewCommentController(logger, uc)

	r.POST("/users/signin", uctl.SignIn)
	r.GET("/profile", uctl.Profile)

	r.GET("/posts", pctl.ListPosts)
	r.POST("/posts", pctl.CreatePost)
	r.GET("/posts/:id", pctl.GetPost)
	r.PATCH("/posts/:id", pctl.EditPost)
	r.DELETE("/posts/:id", pctl.DeletePost)
	r.POST("/posts/:id/comments", cctl.AddComment)

	r.GET("/comments/:id", cctl.GetComment)
	r.PATCH("/comments/:id", cctl.EditComment)
	r.DELETE("/comments/:id", cctl.DeleteComment)

	return r
}
