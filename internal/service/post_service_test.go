package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/testutil"
)

func upload(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	f, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.RemoveAll() })
	return f.File["image"][0]
}

func TestPostService_Create(t *testing.T) {
	e := newEnv(t, false)
	author := testutil.CreateUser(t, e.db, "leo")
	group := testutil.CreateGroup(t, e.db, "Group", "g")
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

	post, err := e.posts.Create(e.ctx, author, form.PostInput{Text: "hello", GroupID: &group.ID}, upload(t, "small.gif", gif))
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.False(t, post.PubDate.IsZero())
	assert.True(t, strings.HasPrefix(post.Image, "posts/"))
	assert.True(t, strings.HasSuffix(post.Image, ".gif"))

	stored, err := e.posts.Get(e.ctx, "leo", post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Text)
	assert.Equal(t, group.ID, *stored.GroupID)
}

func TestPostService_CreateInvalid(t *testing.T) {
	e := newEnv(t, false)
	author := testutil.CreateUser(t, e.db, "leo")
	missing := uint(404)

	tests := []struct {
		name  string
		in    form.PostInput
		image *multipart.FileHeader
		field string
	}{
		{"blank text", form.PostInput{Text: "  "}, nil, "text"},
		{"unknown group", form.PostInput{Text: "x", GroupID: &missing}, nil, "group"},
		{"not an image", form.PostInput{Text: "x"}, upload(t, "a.png", []byte("plain text")), "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.posts.Create(e.ctx, author, tt.in, tt.image)
			var ferrs form.Errors
			require.True(t, errors.As(err, &ferrs), "got %v", err)
			_, ok := ferrs.Field(tt.field)
			assert.True(t, ok)
		})
	}

	n, err := e.postRepo.Count(e.ctx, repository.PostFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = e.posts.Create(e.ctx, model.AnonymousUser, form.PostInput{Text: "x"}, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPostService_UpdateByAuthor(t *testing.T) {
	e := newEnv(t, false)
	author := testutil.CreateUser(t, e.db, "leo")
	group := testutil.CreateGroup(t, e.db, "Group", "g")
	post := testutil.CreatePost(t, e.db, author, group, "before")

	updated, err := e.posts.Update(e.ctx, author, "leo", post.ID, form.PostInput{Text: "after"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Text)

	stored, err := e.posts.Get(e.ctx, "leo", post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", stored.Text)
	assert.Nil(t, stored.GroupID)
	assert.True(t, stored.PubDate.Equal(post.PubDate))
}

func TestPostService_NonAuthorCannotEdit(t *testing.T) {
	e := newEnv(t, false)
	author := testutil.CreateUser(t, e.db, "leo")
	other := testutil.CreateUser(t, e.db, "other")
	post := testutil.CreatePost(t, e.db, author, nil, "original")

	got, err := e.posts.Update(e.ctx, other, "leo", post.ID, form.PostInput{Text: "hijacked"}, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	require.NotNil(t, got)
	assert.Equal(t, post.ID, got.ID)

	_, err = e.posts.Update(e.ctx, model.AnonymousUser, "leo", post.ID, form.PostInput{Text: "hijacked"}, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := e.posts.Get(e.ctx, "leo", post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Text)
}

func TestPostService_GetChecksOwner(t *testing.T) {
	e := newEnv(t, false)
	author := testutil.CreateUser(t, e.db, "leo")
	testutil.CreateUser(t, e.db, "other")
	post := testutil.CreatePost(t, e.db, author, nil, "text")

	_, err := e.posts.Get(e.ctx, "other", post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = e.posts.Get(e.ctx, "ghost", post.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = e.posts.Get(e.ctx, "leo", post.ID+1)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCanEdit(t *testing.T) {
	post := &model.Post{AuthorID: 7}
	assert.True(t, CanEdit(&model.User{ID: 7}, post))
	assert.False(t, CanEdit(&model.User{ID: 8}, post))
	assert.False(t, CanEdit(model.AnonymousUser, &model.Post{}))
	assert.False(t, CanEdit(nil, post))
}

func TestCommentService(t *testing.T) {
	e := newEnv(t, false)
	author := testutil.CreateUser(t, e.db, "leo")
	reader := testutil.CreateUser(t, e.db, "reader")
	post := testutil.CreatePost(t, e.db, author, nil, "text")

	_, err := e.comments.AddComment(e.ctx, post, reader, form.CommentInput{Text: "first"})
	require.NoError(t, err)
	c, err := e.comments.AddComment(e.ctx, post, author, form.CommentInput{Text: "second"})
	require.NoError(t, err)
	assert.Equal(t, "leo", c.Author.Username)

	_, err = e.comments.AddComment(e.ctx, post, reader, form.CommentInput{Text: ""})
	var ferrs form.Errors
	assert.True(t, errors.As(err, &ferrs))

	_, err = e.comments.AddComment(e.ctx, post, model.AnonymousUser, form.CommentInput{Text: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	detail, err := e.comments.ViewPostDetail(e.ctx, reader, "leo", post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "second", detail.Comments[0].Text)
	assert.Equal(t, "leo", detail.Author.Username)
	assert.EqualValues(t, 1, detail.PostsCount)
	assert.False(t, detail.CanEdit)

	detail, err = e.comments.ViewPostDetail(e.ctx, author, "leo", post.ID)
	require.NoError(t, err)
	assert.True(t, detail.CanEdit)

	_, err = e.comments.ViewPostDetail(e.ctx, reader, "reader", post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
