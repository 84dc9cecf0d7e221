package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/testutil"
)

func TestFollowRepository_CreateIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")

	require.NoError(t, repo.Create(ctx, reader.ID, author.ID))
	require.NoError(t, repo.Create(ctx, reader.ID, author.ID))

	cnt, err := repo.Count(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	ok, err := repo.Exists(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, author.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowRepository_DeleteMissingEdge(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")

	require.NoError(t, repo.Delete(ctx, reader.ID, author.ID))

	require.NoError(t, repo.Create(ctx, reader.ID, author.ID))
	require.NoError(t, repo.Delete(ctx, reader.ID, author.ID))
	cnt, err := repo.Count(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestFollowRepository_Lists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")
	for i := 0; i < 3; i++ {
		u := testutil.CreateUser(t, db, fmt.Sprintf("fan%d", i))
		require.NoError(t, repo.Create(ctx, u.ID, author.ID))
	}

	fans, err := repo.ListFollowers(ctx, author.ID, 0, 2)
	require.NoError(t, err)
	assert.Len(t, fans, 2)

	n, err := repo.CountFollowers(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	following, err := repo.ListFollowing(ctx, fans[0].ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "author", following[0].Username)

	n, err = repo.CountFollowing(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostRepository_Filters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	reader := testutil.CreateUser(t, db, "reader")
	cats := testutil.CreateGroup(t, db, "Cats", "cats")
	dogs := testutil.CreateGroup(t, db, "Dogs", "dogs")

	testutil.CreatePost(t, db, alice, cats, "alice about cats")
	testutil.CreatePost(t, db, bob, dogs, "bob about dogs")
	last := testutil.CreatePost(t, db, bob, nil, "bob without group")

	all, err := repo.List(ctx, PostFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, last.ID, all[0].ID)
	require.NotNil(t, all[0].Author)
	assert.Equal(t, "bob", all[0].Author.Username)
	assert.Nil(t, all[0].Group)

	inCats, err := repo.List(ctx, PostFilter{GroupID: &cats.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, inCats, 1)
	assert.Equal(t, "alice about cats", inCats[0].Text)
	assert.Equal(t, "cats", inCats[0].Group.Slug)

	n, err := repo.Count(ctx, PostFilter{AuthorID: &bob.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.Count(ctx, PostFilter{FollowerID: &reader.ID})
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, follows.Create(ctx, reader.ID, alice.ID))
	feed, err := repo.List(ctx, PostFilter{FollowerID: &reader.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, alice.ID, feed[0].AuthorID)
}

func TestPostRepository_UpdateKeepsPubDate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")
	group := testutil.CreateGroup(t, db, "Group", "group-slug")
	post := testutil.CreatePost(t, db, author, group, "before")

	stored, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)

	stored.Text = "after"
	stored.GroupID = nil
	require.NoError(t, repo.Update(ctx, stored))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Text)
	assert.Nil(t, got.GroupID)
	assert.True(t, got.PubDate.Equal(post.PubDate), "pub_date changed: %v -> %v", post.PubDate, got.PubDate)
}

func TestPostRepository_GetMissing(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := NewPostRepository(db).GetByID(context.Background(), 42)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	groups := NewGroupRepository(db)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	follows := NewFollowRepository(db)

	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")
	group := testutil.CreateGroup(t, db, "Group", "g")
	kept := testutil.CreatePost(t, db, reader, group, "reader post")
	gone := testutil.CreatePost(t, db, author, nil, "author post")
	require.NoError(t, comments.Create(ctx, &model.Comment{PostID: gone.ID, AuthorID: reader.ID, Text: "hi"}))
	require.NoError(t, comments.Create(ctx, &model.Comment{PostID: kept.ID, AuthorID: author.ID, Text: "hey"}))
	require.NoError(t, follows.Create(ctx, reader.ID, author.ID))

	require.NoError(t, groups.Delete(ctx, group.ID))
	p, err := posts.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Nil(t, p.GroupID)

	require.NoError(t, users.Delete(ctx, author.ID))

	_, err = posts.GetByID(ctx, gone.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	left, err := comments.ListByPost(ctx, kept.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	n, err := follows.CountFollowing(ctx, reader.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommentRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)
	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author, nil, "post")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Comment{PostID: post.ID, AuthorID: author.ID, Text: fmt.Sprintf("c%d", i)}))
	}
	list, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c2", list[0].Text)
	assert.Equal(t, "author", list[0].Author.Username)
}

func TestGroupRepository_SlugUnique(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewGroupRepository(db)

	require.NoError(t, repo.Create(ctx, &model.Group{Title: "A", Slug: "same"}))
	err := repo.Create(ctx, &model.Group{Title: "B", Slug: "same"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	g, err := repo.GetBySlug(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, "A", g.Title)
}
