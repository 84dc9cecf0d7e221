// Command seed fills the configured database with demo groups, users, posts
// and follows through the regular services.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/database"
	"github.com/d60-Lab/yatube/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	db := must(database.InitDB(cfg))
	defer func() { _ = database.Close(db) }()

	users := envInt("USERS", 20)
	postsPerUser := envInt("POSTS", 15)
	follows := envInt("FOLLOWS", 5)
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "yatube-demo"
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	media := must(storage.NewLocalStorage(cfg.Media.Root, cfg.Media.URL))

	feedSvc := service.NewFeedService(postRepo, groupRepo, userRepo, cache.NopCache{}, cfg.Feed.PageSize)
	groupSvc := service.NewGroupService(groupRepo, feedSvc)
	postSvc := service.NewPostService(postRepo, userRepo, groupRepo, feedSvc, media, cfg.Media.MaxSize)
	relSvc := service.NewRelationshipService(repository.NewFollowRepository(db), userRepo, feedSvc, cfg.Feed.PageSize)
	authSvc := service.NewAuthService(userRepo, service.AuthConfig{Secret: []byte(cfg.Auth.JWTSecret), Issuer: cfg.Auth.Issuer, TokenTTL: cfg.Auth.TokenTTL})

	ctx := context.Background()
	start := time.Now()

	groups := make([]*model.Group, 0, 3)
	for i, title := range []string{"Cats", "Travel", "Books"} {
		in := form.GroupInput{Title: title, Slug: fmt.Sprintf("group-%d", i+1), Description: title + " talk"}
		g, err := groupSvc.Create(ctx, in)
		if errors.Is(err, service.ErrSlugTaken) {
			g, err = groupSvc.GetBySlug(ctx, in.Slug)
		}
		groups = append(groups, must(g, err))
	}

	created := make([]*model.User, 0, users)
	for i := 0; i < users; i++ {
		name := fmt.Sprintf("author%d", i)
		u, err := authSvc.Signup(ctx, form.SignupInput{Username: name, Email: name + "@example.com", Password: password})
		if errors.Is(err, service.ErrUsernameTaken) {
			u, err = userRepo.GetByUsername(ctx, name)
		}
		created = append(created, must(u, err))
	}

	rnd := rand.New(rand.NewSource(42))
	var nPosts, nFollows int
	for _, u := range created {
		for j := 0; j < postsPerUser; j++ {
			in := form.PostInput{Text: fmt.Sprintf("Post %d by %s", j+1, u.Username)}
			if rnd.Intn(3) > 0 {
				in.GroupID = &groups[rnd.Intn(len(groups))].ID
			}
			must(postSvc.Create(ctx, u, in, nil))
			nPosts++
		}
		for k := 0; k < follows && len(created) > 1; k++ {
			author := created[rnd.Intn(len(created))]
			if err := relSvc.Follow(ctx, u, author.Username); err != nil {
				panic(err)
			}
			if author.ID != u.ID {
				nFollows++
			}
		}
	}

	logger.Info("seed done",
		zap.Int("groups", len(groups)),
		zap.Int("users", len(created)),
		zap.Int("posts", nPosts),
		zap.Int("follow_attempts", nFollows),
		zap.Duration("took", time.Since(start)),
	)
}
