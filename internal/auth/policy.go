package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnauthenticated means the request carries no session identity.
	ErrUnauthenticated = errors.New("you must be signed in to do that")
	// ErrForbidden means the caller does not own the resource.
	ErrForbidden = errors.New("you can only modify your own content")
)

// RequireSignedIn ensures a principal is present in context.
func RequireSignedIn(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok || p.Username == "" {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// IsOwner reports whether the stored owner of a record is the caller.
func IsOwner(owner string, p *Principal) bool {
	return p != nil && owner == p.Username
}

// RequireOwner returns ErrForbidden unless the caller owns the record.
func RequireOwner(owner string, p *Principal) error {
	if !IsOwner(owner, p) {
		return ErrForbidden
	}
	return nil
}

// IDLister lists every id of one kind of record.
type IDLister interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

// Policy answers existence questions against the store.
type Policy struct {
	posts    IDLister
	comments IDLister
}

func NewPolicy(posts, comments IDLister) *Policy {
	return &Policy{posts: posts, comments: comments}
}

// PostExists reports whether id is among the stored post ids.
func (p *Policy) PostExists(ctx context.Context, id int64) (bool, error) {
	ids, err := p.posts.ListIDs(ctx)
	if err != nil {
		return false, fmt.Errorf("list post ids: %w", err)
	}
	return slices.Contains(ids, id), nil
}

// CommentExists reports whether id is among the stored comment ids.
func (p *Policy) CommentExists(ctx context.Context, id int64) (bool, error) {
	ids, err := p.comments.ListIDs(ctx)
	if err != nil {
		return false, fmt.Errorf("list comment ids: %w", err)
	}
	return slices.Contains(ids, id), nil
}
