package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/testutil"
)

func TestFeed_GroupScenario(t *testing.T) {
	e := newEnv(t, false)
	author := testutil.CreateUser(t, e.db, "leo")
	group, err := e.groups.Create(e.ctx, form.GroupInput{
		Title:       "Тестовая группа",
		Slug:        "test-group",
		Description: "Тестовое описание группы",
	})
	require.NoError(t, err)

	_, err = e.posts.Create(e.ctx, author, form.PostInput{Text: "Текст тестового поста", GroupID: &group.ID}, nil)
	require.NoError(t, err)

	page, err := e.feed.Page(e.ctx, GroupPosts("test-group"), 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	post := page.Posts[0]
	assert.Equal(t, "Текст тестового поста", post.Text)
	assert.Equal(t, "leo", post.Author.Username)
	require.NotNil(t, post.Group)
	assert.Equal(t, "Тестовая группа", post.Group.Title)
	assert.Equal(t, "test-group", post.Group.Slug)
	assert.Equal(t, "Тестовое описание группы", post.Group.Description)
	assert.Equal(t, "test-group", page.Group.Slug)
}

func TestFeed_GroupPostVisibility(t *testing.T) {
	e := newEnv(t, false)
	author := testutil.CreateUser(t, e.db, "leo")
	cats := testutil.CreateGroup(t, e.db, "Cats", "cats")
	testutil.CreateGroup(t, e.db, "Dogs", "dogs")
	testutil.CreatePost(t, e.db, author, cats, "meow")

	all, err := e.feed.Page(e.ctx, AllPosts(), 1)
	require.NoError(t, err)
	assert.Contains(t, texts(all), "meow")

	inCats, err := e.feed.Page(e.ctx, GroupPosts("cats"), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"meow"}, texts(inCats))

	inDogs, err := e.feed.Page(e.ctx, GroupPosts("dogs"), 1)
	require.NoError(t, err)
	assert.Empty(t, inDogs.Posts)
}

func TestFeed_Pagination(t *testing.T) {
	e := newEnv(t, false)
	author := testutil.CreateUser(t, e.db, "leo")
	group := testutil.CreateGroup(t, e.db, "Group", "test-group")
	for i := 0; i < 13; i++ {
		testutil.CreatePost(t, e.db, author, group, nth(i))
	}

	first, err := e.feed.Page(e.ctx, GroupPosts("test-group"), 1)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, 2, first.NumPages)
	assert.EqualValues(t, 13, first.Total)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)

	second, err := e.feed.Page(e.ctx, GroupPosts("test-group"), 2)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 3)
	assert.Equal(t, 2, second.Number)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrevious)

	profile, err := e.feed.Page(e.ctx, AuthorPosts("leo"), 2)
	require.NoError(t, err)
	assert.Len(t, profile.Posts, 3)
	assert.Equal(t, "leo", profile.Author.Username)
}

func TestFeed_PageOutOfRange(t *testing.T) {
	e := newEnv(t, false)
	author := testutil.CreateUser(t, e.db, "leo")
	for i := 0; i < 13; i++ {
		testutil.CreatePost(t, e.db, author, nil, nth(i))
	}

	for _, n := range []int{3, 99, 0, -1} {
		page, err := e.feed.Page(e.ctx, AllPosts(), n)
		require.NoError(t, err)
		assert.Equal(t, 2, page.Number, "requested %d", n)
		assert.Len(t, page.Posts, 3)
	}
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 7, ParsePage("7"))
}

func TestFeed_EmptyIsOnePage(t *testing.T) {
	e := newEnv(t, false)
	testutil.CreateGroup(t, e.db, "Empty", "empty")

	page, err := e.feed.Page(e.ctx, GroupPosts("empty"), 5)
	require.NoError(t, err)
	assert.NotNil(t, page.Posts)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
}

func TestFeed_NewestFirst(t *testing.T) {
	e := newEnv(t, false)
	alice := testutil.CreateUser(t, e.db, "alice")
	bob := testutil.CreateUser(t, e.db, "bob")
	for i := 0; i < 6; i++ {
		author := alice
		if i%2 == 1 {
			author = bob
		}
		testutil.CreatePost(t, e.db, author, nil, nth(i))
	}

	page, err := e.feed.Page(e.ctx, AllPosts(), 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 6)
	for i := 1; i < len(page.Posts); i++ {
		prev, cur := page.Posts[i-1], page.Posts[i]
		assert.False(t, cur.PubDate.After(prev.PubDate))
		assert.Greater(t, prev.ID, cur.ID)
	}
	assert.Equal(t, nth(5), page.Posts[0].Text)
}

func TestFeed_UnknownTargets(t *testing.T) {
	e := newEnv(t, false)

	_, err := e.feed.Page(e.ctx, GroupPosts("nope"), 1)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.feed.Page(e.ctx, AuthorPosts("nobody"), 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFeed_IndexCache(t *testing.T) {
	e := newEnv(t, true)
	author := testutil.CreateUser(t, e.db, "leo")
	testutil.CreatePost(t, e.db, author, nil, "first")

	page, err := e.feed.Page(e.ctx, AllPosts(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, texts(page))

	// written behind the service's back: the cached page is served until it expires
	testutil.CreatePost(t, e.db, author, nil, "second")
	page, err = e.feed.Page(e.ctx, AllPosts(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, texts(page))

	e.mr.FastForward(21 * time.Second)
	page, err = e.feed.Page(e.ctx, AllPosts(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, texts(page))

	// creating through the service drops the cached pages at once
	_, err = e.posts.Create(e.ctx, author, form.PostInput{Text: "third"}, nil)
	require.NoError(t, err)
	page, err = e.feed.Page(e.ctx, AllPosts(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, texts(page))
}

func TestPaginator(t *testing.T) {
	p := Paginator{Total: 13, Size: 10}
	assert.Equal(t, 2, p.NumPages())
	assert.Equal(t, 10, p.Offset(2))
	assert.Equal(t, 1, Paginator{Total: 0, Size: 10}.NumPages())
	assert.Equal(t, 1, Paginator{Total: 10, Size: 10}.NumPages())
}
