package forum

import (
	"context"

	"discussionForum/internal/auth"
	"discussionForum/internal/pagination"
	"discussionForum/models"
)

// PostPage is one page of a post listing.
type PostPage struct {
	Posts []models.PostSummary `json:"posts"`
	Page  pagination.Page      `json:"pagination"`
}

// PostView is a post with one page of its comments, newest first.
type PostView struct {
	Post     *models.PostDetail `json:"post"`
	Comments []models.Comment   `json:"comments"`
	Page     pagination.Page    `json:"pagination"`
}

// ListPosts returns a page of the hot listing.
func (s *Service) ListPosts(ctx context.Context, rawPage string) (*PostPage, error) {
	if _, err := auth.RequireSignedIn(ctx); err != nil {
		return nil, err
	}
	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, s.fail("count posts", err)
	}
	page, err := s.resolvePage(rawPage, total)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListRanked(ctx, page.Offset, page.Size)
	if err != nil {
		return nil, s.fail("list posts", err)
	}
	return &PostPage{Posts: posts, Page: page}, nil
}

// Profile returns a page of the caller's own posts, newest first.
func (s *Service) Profile(ctx context.Context, rawPage string) (*PostPage, error) {
	p, err := auth.RequireSignedIn(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.CountByUser(ctx, p.Username)
	if err != nil {
		return nil, s.fail("count user posts", err)
	}
	page, err := s.resolvePage(rawPage, total)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByUser(ctx, p.Username, page.Offset, page.Size)
	if err != nil {
		return nil, s.fail("list user posts", err)
	}
	return &PostPage{Posts: posts, Page: page}, nil
}

// GetPost returns a post and the requested page of its comments.
func (s *Service) GetPost(ctx context.Context, id int64, rawCommentsPage string) (*PostView, error) {
	if _, err := auth.RequireSignedIn(ctx); err != nil {
		return nil, err
	}
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	page, err := s.resolvePage(rawCommentsPage, post.Comments)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id, page.Offset, page.Size)
	if err != nil {
		return nil, s.fail("list comments", err)
	}
	return &PostView{Post: post, Comments: comments, Page: page}, nil
}

// CreatePost stores a post owned by the caller and returns its id.
// The title is stored trimmed.
func (s *Service) CreatePost(ctx context.Context, title, content string) (int64, error) {
	p, err := auth.RequireSignedIn(ctx)
	if err != nil {
		return 0, err
	}
	in := newPostInput(title, content)
	if err := validate(in); err != nil {
		return 0, err
	}
	id, err := s.posts.Create(ctx, p.Username, in.Title, content)
	if err != nil {
		return 0, s.fail("create post", err)
	}
	s.logs.Infow("post created", "post_id", id, "username", p.Username)
	return id, nil
}

// EditPost replaces the content of a post owned by the caller.
func (s *Service) EditPost(ctx context.Context, id int64, content string) error {
	p, err := auth.RequireSignedIn(ctx)
	if err != nil {
		return err
	}
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(post.Username, p); err != nil {
		s.logs.Infow("post edit denied", "post_id", id, "username", p.Username)
		return err
	}
	if err := validate(newContentInput(content)); err != nil {
		return err
	}
	if err := s.posts.UpdateContent(ctx, id, content); err != nil {
		return s.fail("edit post", err)
	}
	s.logs.Infow("post edited", "post_id", id, "username", p.Username)
	return nil
}

// DeletePost removes a post owned by the caller together with its comments.
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	p, err := auth.RequireSignedIn(ctx)
	if err != nil {
		return err
	}
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(post.Username, p); err != nil {
		s.logs.Infow("post delete denied", "post_id", id, "username", p.Username)
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return s.fail("delete post", err)
	}
	s.logs.Infow("post deleted", "post_id", id, "username", p.Username)
	return nil
}

// loadPost checks existence against the id listing before reading the post.
func (s *Service) loadPost(ctx context.Context, id int64) (*models.PostDetail, error) {
	ok, err := s.policy.PostExists(ctx, id)
	if err != nil {
		return nil, s.fail("list post ids", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("find post", err)
	}
	return post, nil
}
