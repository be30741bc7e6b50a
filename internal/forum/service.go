// Package forum implements the forum use cases on top of the store,
// the pagination rules and the authorization policy.
package forum

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"discussionForum/internal/auth"
	"discussionForum/internal/pagination"
	"discussionForum/repository"
)

type Service struct {
	logs     *zap.SugaredLogger
	users    repository.UserRepositoryI
	posts    repository.PostRepositoryI
	comments repository.CommentRepositoryI
	policy   *auth.Policy
	tokens   *auth.TokenIssuer
	pageSize int
}

func New(logger *zap.SugaredLogger, users repository.UserRepositoryI, posts repository.PostRepositoryI,
	comments repository.CommentRepositoryI, tokens *auth.TokenIssuer) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		logs:     logger,
		users:    users,
		posts:    posts,
		comments: comments,
		policy:   auth.NewPolicy(posts, comments),
		tokens:   tokens,
		pageSize: pagination.DefaultPageSize,
	}
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignIn checks the credentials and issues a session token.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, username, password string) (*Session, error) {
	if err := validate(credentialsInput{Username: username, Password: password}); err != nil {
		return nil, err
	}
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		s.logs.Infow("sign-in rejected", "username", username, "reason", "unknown user")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.fail("find user", err)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logs.Errorw("stored password hash unusable", "username", username, "error", err)
		}
		s.logs.Infow("sign-in rejected", "username", username, "reason", "bad password")
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.tokens.Issue(u.Username)
	if err != nil {
		return nil, err
	}
	s.logs.Infow("signed in", "username", u.Username)
	return &Session{Token: token, Username: u.Username, ExpiresAt: exp}, nil
}

// resolvePage validates a raw page token against a listing of total items.
func (s *Service) resolvePage(raw string, total int) (pagination.Page, error) {
	page, err := pagination.Resolve(raw, total, s.pageSize)
	if err != nil {
		return pagination.Page{}, &ValidationError{Field: "page", Message: "invalid page", Err: err}
	}
	return page, nil
}

// fail logs a store failure and converts it to the error taxonomy.
func (s *Service) fail(op string, err error) error {
	err = storeErr(op, err)
	var se *StoreError
	if errors.As(err, &se) {
		s.logs.Errorw("store failure", "op", op, "error", se.Err)
	}
	return err
}
