package forum

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"discussionForum/internal/auth"
	"discussionForum/internal/db"
	"discussionForum/internal/pagination"
	"discussionForum/internal/testutil"
	"discussionForum/repository"
)

const testSecret = "forum-test-secret"

func newTestService(t *testing.T, name string) (*Service, *db.DB) {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	svc := New(nil,
		repository.NewUserRepository(d),
		repository.NewPostRepository(d),
		repository.NewCommentRepository(d),
		auth.NewTokenIssuer(testSecret, time.Hour))
	return svc, d
}

func as(username string) context.Context {
	return auth.WithPrincipal(context.Background(), &auth.Principal{Username: username})
}

func TestService_RequiresSignIn(t *testing.T) {
	svc, _ := newTestService(t, "forumanon")
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["ListPosts"] = svc.ListPosts(ctx, "")
	_, checks["Profile"] = svc.Profile(ctx, "")
	_, checks["GetPost"] = svc.GetPost(ctx, 1, "")
	_, checks["CreatePost"] = svc.CreatePost(ctx, "t", "c")
	checks["EditPost"] = svc.EditPost(ctx, 1, "c")
	checks["DeletePost"] = svc.DeletePost(ctx, 1)
	_, checks["AddComment"] = svc.AddComment(ctx, 1, "c")
	_, checks["GetComment"] = svc.GetComment(ctx, 1)
	checks["EditComment"] = svc.EditComment(ctx, 1, "c")
	checks["DeleteComment"] = svc.DeleteComment(ctx, 1)

	for op, err := range checks {
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", op, err)
		}
	}
}

func TestService_CreatePostValidatesTitle(t *testing.T) {
	svc, _ := newTestService(t, "forumtitle")
	ctx := as("tech_guru")

	var verr *ValidationError
	for _, title := range []string{"", "   ", strings.Repeat("a", 101)} {
		_, err := svc.CreatePost(ctx, title, "body")
		if !errors.As(err, &verr) || verr.Field != "title" {
			t.Fatalf("title %q: expected title ValidationError, got %v", title, err)
		}
	}
	if _, err := svc.CreatePost(ctx, "ok", "  \n "); !errors.As(err, &verr) || verr.Field != "content" {
		t.Fatalf("expected content ValidationError, got %v", err)
	}

	for _, title := range []string{"a", strings.Repeat("é", 100)} {
		if _, err := svc.CreatePost(ctx, title, "body"); err != nil {
			t.Fatalf("title of %d runes rejected: %v", len([]rune(title)), err)
		}
	}

	id, err := svc.CreatePost(ctx, "  padded  ", "body")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	view, err := svc.GetPost(ctx, id, "")
	if err != nil || view.Post.Title != "padded" || view.Post.Username != "tech_guru" {
		t.Fatalf("stored post: %v %+v", err, view)
	}
}

func TestService_PostWithComments(t *testing.T) {
	svc, _ := newTestService(t, "forumcomments")
	author := as("nature_lover")

	id, err := svc.CreatePost(author, "Trails", "favourite hikes")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	view, err := svc.GetPost(author, id, "")
	if err != nil || view.Post.Comments != 0 || len(view.Comments) != 0 {
		t.Fatalf("fresh post: %v %+v", err, view)
	}

	var ids []int64
	for _, who := range []string{"coder123", "foodie_jane", "tech_guru"} {
		cid, err := svc.AddComment(as(who), id, "reply from "+who)
		if err != nil {
			t.Fatalf("add comment: %v", err)
		}
		ids = append(ids, cid)
	}

	view, err = svc.GetPost(author, id, "1")
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if view.Post.Comments != 3 || len(view.Comments) != 3 {
		t.Fatalf("expected 3 comments: %+v", view)
	}
	if view.Comments[0].ID != ids[2] || view.Comments[2].ID != ids[0] {
		t.Fatalf("expected newest comment first: %+v", view.Comments)
	}

	var verr *ValidationError
	if _, err := svc.GetPost(author, id, "2"); !errors.As(err, &verr) || !errors.Is(err, pagination.ErrInvalidPage) {
		t.Fatalf("expected invalid comments page, got %v", err)
	}
	if _, err := svc.GetPost(author, id+100, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.AddComment(author, id+100, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for comment on missing post, got %v", err)
	}
	if _, err := svc.AddComment(author, id, " "); !errors.As(err, &verr) || verr.Field != "content" {
		t.Fatalf("expected content ValidationError, got %v", err)
	}
}

func TestService_EditPostOwnership(t *testing.T) {
	svc, _ := newTestService(t, "forumeditpost")
	owner := as("coder123")

	id, err := svc.CreatePost(owner, "Go tips", "original")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _ := svc.GetPost(owner, id, "")

	if err := svc.EditPost(as("tech_guru"), id, "hijacked"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeletePost(as("tech_guru"), id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	view, _ := svc.GetPost(owner, id, "")
	if view.Post.Content != "original" {
		t.Fatalf("content changed by non-owner: %q", view.Post.Content)
	}

	var verr *ValidationError
	if err := svc.EditPost(owner, id, "   "); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for blank content, got %v", err)
	}

	if err := svc.EditPost(owner, id, "revised"); err != nil {
		t.Fatalf("owner edit: %v", err)
	}
	view, _ = svc.GetPost(owner, id, "")
	if view.Post.Content != "revised" || !view.Post.CreatedOn.Equal(before.Post.CreatedOn) {
		t.Fatalf("unexpected post after edit: %+v", view.Post)
	}

	if err := svc.EditPost(owner, id+100, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DeletePostCascadesComments(t *testing.T) {
	svc, _ := newTestService(t, "forumdeletepost")
	owner := as("foodie_jane")

	id, _ := svc.CreatePost(owner, "Recipes", "pasta")
	keep, _ := svc.CreatePost(owner, "More recipes", "soup")
	gone, _ := svc.AddComment(as("coder123"), id, "yum")
	kept, _ := svc.AddComment(as("coder123"), keep, "also yum")

	if err := svc.DeletePost(owner, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetPost(owner, id, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected post gone, got %v", err)
	}
	if _, err := svc.GetComment(as("coder123"), gone); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected comment gone, got %v", err)
	}
	if _, err := svc.GetComment(as("coder123"), kept); err != nil {
		t.Fatalf("comment on other post removed: %v", err)
	}
	if err := svc.DeletePost(owner, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestService_CommentOwnership(t *testing.T) {
	svc, _ := newTestService(t, "forumcommentowner")
	postID, _ := svc.CreatePost(as("tech_guru"), "Question", "anyone?")
	author := as("coder123")
	cid, err := svc.AddComment(author, postID, "me")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	stranger := as("nature_lover")
	if _, err := svc.GetComment(stranger, cid); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on read, got %v", err)
	}
	if err := svc.EditComment(stranger, cid, "mine now"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on edit, got %v", err)
	}
	if err := svc.DeleteComment(stranger, cid); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}

	var verr *ValidationError
	if err := svc.EditComment(author, cid, ""); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err := svc.EditComment(author, cid, "me too"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	c, err := svc.GetComment(author, cid)
	if err != nil || c.Content != "me too" {
		t.Fatalf("get after edit: %v %+v", err, c)
	}

	if err := svc.DeleteComment(author, cid); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.EditComment(author, cid, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListPostsAndProfile(t *testing.T) {
	svc, d := newTestService(t, "forumlist")
	ctx := as("coder123")

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	busy := testutil.InsertPostAt(t, d, "tech_guru", "busy", "x", base)
	newer := testutil.InsertPostAt(t, d, "coder123", "newer", "x", base.Add(time.Hour))
	newest := testutil.InsertPostAt(t, d, "coder123", "newest", "x", base.Add(2*time.Hour))
	if _, err := svc.AddComment(ctx, busy, "first!"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	for _, raw := range []string{"", "0", "00", "1"} {
		page, err := svc.ListPosts(ctx, raw)
		if err != nil {
			t.Fatalf("list %q: %v", raw, err)
		}
		if page.Page.Number != 1 || page.Page.Max != 1 || len(page.Posts) != 3 {
			t.Fatalf("list %q: unexpected page %+v", raw, page.Page)
		}
		got := []int64{page.Posts[0].ID, page.Posts[1].ID, page.Posts[2].ID}
		if got[0] != busy || got[1] != newest || got[2] != newer {
			t.Fatalf("unexpected hot order: %v", got)
		}
	}

	for _, raw := range []string{"3abc", "2", "-1"} {
		if _, err := svc.ListPosts(ctx, raw); !errors.Is(err, pagination.ErrInvalidPage) {
			t.Fatalf("list %q: expected invalid page, got %v", raw, err)
		}
	}

	prof, err := svc.Profile(ctx, "")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(prof.Posts) != 2 || prof.Posts[0].ID != newest || prof.Posts[1].ID != newer {
		t.Fatalf("unexpected profile: %+v", prof.Posts)
	}

	empty, err := svc.Profile(as("foodie_jane"), "")
	if err != nil || len(empty.Posts) != 0 || empty.Page.Max != 1 {
		t.Fatalf("empty profile: %v %+v", err, empty)
	}
}

func TestService_ListPostsPaginates(t *testing.T) {
	svc, d := newTestService(t, "forumpages")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		testutil.InsertPostAt(t, d, "tech_guru", "post", "x", base.Add(time.Duration(i)*time.Minute))
	}

	page, err := svc.ListPosts(as("tech_guru"), "3")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Page.Max != 3 || page.Page.Offset != 20 || len(page.Posts) != 5 {
		t.Fatalf("unexpected last page: %+v len=%d", page.Page, len(page.Posts))
	}
	if page.Posts[0].Rank != 21 || page.Posts[4].Rank != 25 {
		t.Fatalf("unexpected ranks: %d..%d", page.Posts[0].Rank, page.Posts[4].Rank)
	}
}

func TestService_SignIn(t *testing.T) {
	svc, d := newTestService(t, "forumsignin")
	ctx := context.Background()

	hash, err := auth.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := repository.NewUserRepository(d).Create(ctx, "alice", hash); err != nil {
		t.Fatalf("create user: %v", err)
	}

	sess, err := svc.SignIn(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	p, err := auth.NewTokenIssuer(testSecret, time.Hour).Parse(sess.Token)
	if err != nil || p.Username != "alice" || sess.Username != "alice" {
		t.Fatalf("issued token: %v %+v", err, p)
	}

	if _, err := svc.SignIn(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	var verr *ValidationError
	if _, err := svc.SignIn(ctx, "", ""); !errors.As(err, &verr) || verr.Field != "password" && verr.Field != "username" {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestService_StoreFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	d := db.New(sqlDB, db.DialectSQLite, nil)
	svc := New(nil,
		repository.NewUserRepository(d),
		repository.NewPostRepository(d),
		repository.NewCommentRepository(d),
		auth.NewTokenIssuer(testSecret, time.Hour))

	boom := errors.New("disk I/O error")
	mock.ExpectQuery("SELECT COUNT").WillReturnError(boom)

	_, err = svc.ListPosts(as("tech_guru"), "")
	var serr *StoreError
	if !errors.As(err, &serr) || !errors.Is(err, boom) || serr.Op != "count posts" {
		t.Fatalf("expected StoreError wrapping the cause, got %v", err)
	}

	mock.ExpectQuery("SELECT id FROM posts").WillReturnError(boom)
	if err := svc.DeletePost(as("tech_guru"), 1); !errors.As(err, &serr) {
		t.Fatalf("expected StoreError from existence check, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
