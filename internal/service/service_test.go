package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/internal/testutil"
)

type env struct {
	db       *gorm.DB
	ctx      context.Context
	postRepo repository.PostRepository
	feed     FeedService
	posts    PostService
	comments CommentService
	rel      RelationshipService
	groups   GroupService
	auth     AuthService
	mr       *miniredis.Miniredis
}

// newEnv wires every service over a fresh sqlite database. When withCache
// is set the feed reads through a miniredis-backed cache.
func newEnv(t *testing.T, withCache bool) *env {
	t.Helper()
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	posts := repository.NewPostRepository(db)

	e := &env{db: db, ctx: context.Background(), postRepo: posts}

	var fc cache.FeedCache = cache.NopCache{}
	if withCache {
		e.mr = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: e.mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		fc = cache.NewRedisCache(client, "test", 20*time.Second)
	}

	media, err := storage.NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	e.feed = NewFeedService(posts, groups, users, fc, 10)
	e.posts = NewPostService(posts, users, groups, e.feed, media, 1<<20)
	e.comments = NewCommentService(e.posts, posts, repository.NewCommentRepository(db))
	e.rel = NewRelationshipService(repository.NewFollowRepository(db), users, e.feed, 10)
	e.groups = NewGroupService(groups, e.feed)
	e.auth = NewAuthService(users, AuthConfig{Secret: []byte("test-secret"), Issuer: "yatube", TokenTTL: time.Hour})
	return e
}

func texts(p *FeedPage) []string {
	out := make([]string, len(p.Posts))
	for i, post := range p.Posts {
		out[i] = post.Text
	}
	return out
}

func nth(i int) string { return fmt.Sprintf("post %02d", i) }
