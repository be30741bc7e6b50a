package forum

import (
	"context"

	"discussionForum/internal/auth"
	"discussionForum/models"
)

// AddComment attaches a comment by the caller to an existing post.
func (s *Service) AddComment(ctx context.Context, postID int64, content string) (int64, error) {
	p, err := auth.RequireSignedIn(ctx)
	if err != nil {
		return 0, err
	}
	ok, err := s.policy.PostExists(ctx, postID)
	if err != nil {
		return 0, s.fail("list post ids", err)
	}
	if !ok {
		return 0, ErrNotFound
	}
	if err := validate(newContentInput(content)); err != nil {
		return 0, err
	}
	id, err := s.comments.Create(ctx, postID, p.Username, content)
	if err != nil {
		return 0, s.fail("add comment", err)
	}
	s.logs.Infow("comment added", "comment_id", id, "post_id", postID, "username", p.Username)
	return id, nil
}

// GetComment returns a comment for editing; only its author may read it here.
func (s *Service) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	p, err := auth.RequireSignedIn(ctx)
	if err != nil {
		return nil, err
	}
	return s.ownedComment(ctx, id, p)
}

// EditComment replaces the content of a comment owned by the caller.
func (s *Service) EditComment(ctx context.Context, id int64, content string) error {
	p, err := auth.RequireSignedIn(ctx)
	if err != nil {
		return err
	}
	if _, err := s.ownedComment(ctx, id, p); err != nil {
		return err
	}
	if err := validate(newContentInput(content)); err != nil {
		return err
	}
	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		return s.fail("edit comment", err)
	}
	s.logs.Infow("comment edited", "comment_id", id, "username", p.Username)
	return nil
}

// DeleteComment removes a comment owned by the caller.
func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	p, err := auth.RequireSignedIn(ctx)
	if err != nil {
		return err
	}
	if _, err := s.ownedComment(ctx, id, p); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return s.fail("delete comment", err)
	}
	s.logs.Infow("comment deleted", "comment_id", id, "username", p.Username)
	return nil
}

func (s *Service) ownedComment(ctx context.Context, id int64, p *auth.Principal) (*models.Comment, error) {
	ok, err := s.policy.CommentExists(ctx, id)
	if err != nil {
		return nil, s.fail("list comment ids", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("find comment", err)
	}
	if err := auth.RequireOwner(c.Username, p); err != nil {
		s.logs.Infow("comment access denied", "comment_id", id, "username", p.Username)
		return nil, err
	}
	return c, nil
}
