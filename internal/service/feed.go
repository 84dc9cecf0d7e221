package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/logger"
)

const tracerName = "github.com/d60-Lab/yatube/internal/service"

type FeedKind string

const (
	FeedAll       FeedKind = "all"
	FeedGroup     FeedKind = "group"
	FeedAuthor    FeedKind = "author"
	FeedFollowing FeedKind = "follow"
)

// FeedQuery selects which posts a feed lists.
type FeedQuery struct {
	Kind     FeedKind
	Slug     string
	Username string
	UserID   uint
}

func AllPosts() FeedQuery { return FeedQuery{Kind: FeedAll} }

func GroupPosts(slug string) FeedQuery { return FeedQuery{Kind: FeedGroup, Slug: slug} }

func AuthorPosts(username string) FeedQuery { return FeedQuery{Kind: FeedAuthor, Username: username} }

// FollowedPosts lists posts by authors userID follows.
func FollowedPosts(userID uint) FeedQuery { return FeedQuery{Kind: FeedFollowing, UserID: userID} }

// FeedPage is one page of a feed plus what a template needs to draw the pager.
type FeedPage struct {
	Posts       []*model.Post `json:"posts"`
	Number      int           `json:"number"`
	NumPages    int           `json:"num_pages"`
	PageSize    int           `json:"page_size"`
	Total       int64         `json:"total"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`

	Group  *model.Group `json:"group,omitempty"`
	Author *model.User  `json:"author,omitempty"`
}

// FeedService composes paginated post listings.
type FeedService interface {
	Page(ctx context.Context, q FeedQuery, page int) (*FeedPage, error)
	// InvalidateIndex drops cached pages of the all-posts feed.
	InvalidateIndex(ctx context.Context) error
}

type feedService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	cache    cache.FeedCache
	pageSize int
	tracer   trace.Tracer
}

func NewFeedService(posts repository.PostRepository, groups repository.GroupRepository, users repository.UserRepository, fc cache.FeedCache, pageSize int) FeedService {
	if fc == nil {
		fc = cache.NopCache{}
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return &feedService{
		posts:    posts,
		groups:   groups,
		users:    users,
		cache:    fc,
		pageSize: pageSize,
		tracer:   otel.Tracer(tracerName),
	}
}

func (s *feedService) Page(ctx context.Context, q FeedQuery, page int) (*FeedPage, error) {
	ctx, span := s.tracer.Start(ctx, "feed.Page", trace.WithAttributes(
		attribute.String("feed.kind", string(q.Kind)),
		attribute.Int("feed.page", page),
	))
	defer span.End()

	res, err := s.page(ctx, q, page)
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

func (s *feedService) page(ctx context.Context, q FeedQuery, page int) (*FeedPage, error) {
	if q.Kind != FeedAll {
		return s.load(ctx, q, page)
	}

	key := cache.FeedKey(string(FeedAll), page, s.pageSize)
	var cached FeedPage
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("feed cache get failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("feed.cache_hit", true))
		return &cached, nil
	}

	res, err := s.load(ctx, q, page)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, res); err != nil {
		logger.Warn("feed cache set failed", zap.String("key", key), zap.Error(err))
	}
	return res, nil
}

func (s *feedService) load(ctx context.Context, q FeedQuery, page int) (*FeedPage, error) {
	var (
		filter repository.PostFilter
		res    FeedPage
	)
	switch q.Kind {
	case FeedAll:
	case FeedGroup:
		g, err := s.groups.GetBySlug(ctx, q.Slug)
		if err != nil {
			return nil, notFound(err, ErrGroupNotFound)
		}
		filter.GroupID = &g.ID
		res.Group = g
	case FeedAuthor:
		u, err := s.users.GetByUsername(ctx, q.Username)
		if err != nil {
			return nil, notFound(err, ErrUserNotFound)
		}
		filter.AuthorID = &u.ID
		res.Author = u
	case FeedFollowing:
		uid := q.UserID
		filter.FollowerID = &uid
	default:
		return nil, fmt.Errorf("unknown feed kind %q", q.Kind)
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	p := Paginator{Total: total, Size: s.pageSize}
	number := p.Clamp(page)

	posts, err := s.posts.List(ctx, filter, p.Offset(number), s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	res.Posts = posts
	res.Number = number
	res.NumPages = p.NumPages()
	res.PageSize = s.pageSize
	res.Total = total
	res.HasNext = number < res.NumPages
	res.HasPrevious = number > 1
	return &res, nil
}

func (s *feedService) InvalidateIndex(ctx context.Context) error {
	return s.cache.Invalidate(ctx, cache.FeedPrefix(string(FeedAll)))
}

// notFound maps gorm's missing-row error onto sentinel, other errors pass through.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
