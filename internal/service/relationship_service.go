package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
)

// FollowCounts 个人主页上展示的关注数据
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// UserPage 关注/粉丝列表的一页
type UserPage struct {
	Users       []*model.User `json:"users"`
	Number      int           `json:"number"`
	NumPages    int           `json:"num_pages"`
	Total       int64         `json:"total"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

// RelationshipService 关系链服务
type RelationshipService interface {
	// Follow 关注作者；重复关注与关注自己都不报错，也不产生新记录
	Follow(ctx context.Context, user *model.User, authorUsername string) error
	Unfollow(ctx context.Context, user *model.User, authorUsername string) error
	Feed(ctx context.Context, user *model.User, page int) (*FeedPage, error)
	IsFollowing(ctx context.Context, userID, authorID uint) (bool, error)
	Followers(ctx context.Context, username string, page int) (*model.User, *UserPage, error)
	Following(ctx context.Context, username string, page int) (*model.User, *UserPage, error)
	Counts(ctx context.Context, userID uint) (FollowCounts, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	feed       FeedService
	pageSize   int
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository, feed FeedService, pageSize int) RelationshipService {
	if pageSize < 1 {
		pageSize = 10
	}
	return &relationshipService{followRepo: followRepo, userRepo: userRepo, feed: feed, pageSize: pageSize}
}

func (s *relationshipService) author(ctx context.Context, username string) (*model.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *relationshipService) Follow(ctx context.Context, user *model.User, authorUsername string) error {
	if !user.IsAuthenticated() {
		return ErrUnauthenticated
	}
	author, err := s.author(ctx, authorUsername)
	if err != nil {
		return err
	}
	if author.ID == user.ID {
		return nil
	}
	if err := s.followRepo.Create(ctx, user.ID, author.ID); err != nil {
		return fmt.Errorf("follow %s: %w", authorUsername, err)
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, user *model.User, authorUsername string) error {
	if !user.IsAuthenticated() {
		return ErrUnauthenticated
	}
	author, err := s.author(ctx, authorUsername)
	if err != nil {
		return err
	}
	if err := s.followRepo.Delete(ctx, user.ID, author.ID); err != nil {
		return fmt.Errorf("unfollow %s: %w", authorUsername, err)
	}
	return nil
}

func (s *relationshipService) Feed(ctx context.Context, user *model.User, page int) (*FeedPage, error) {
	if !user.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	return s.feed.Page(ctx, FollowedPosts(user.ID), page)
}

func (s *relationshipService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}

func (s *relationshipService) Followers(ctx context.Context, username string, page int) (*model.User, *UserPage, error) {
	u, err := s.author(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.followRepo.CountFollowers(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.userPage(total, page, func(offset, limit int) ([]*model.User, error) {
		return s.followRepo.ListFollowers(ctx, u.ID, offset, limit)
	})
	return u, res, err
}

func (s *relationshipService) Following(ctx context.Context, username string, page int) (*model.User, *UserPage, error) {
	u, err := s.author(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.followRepo.CountFollowing(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.userPage(total, page, func(offset, limit int) ([]*model.User, error) {
		return s.followRepo.ListFollowing(ctx, u.ID, offset, limit)
	})
	return u, res, err
}

func (s *relationshipService) userPage(total int64, page int, list func(offset, limit int) ([]*model.User, error)) (*UserPage, error) {
	p := Paginator{Total: total, Size: s.pageSize}
	number := p.Clamp(page)
	users, err := list(p.Offset(number), s.pageSize)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*model.User{}
	}
	return &UserPage{
		Users:       users,
		Number:      number,
		NumPages:    p.NumPages(),
		Total:       total,
		HasNext:     number < p.NumPages(),
		HasPrevious: number > 1,
	}, nil
}

func (s *relationshipService) Counts(ctx context.Context, userID uint) (FollowCounts, error) {
	var c FollowCounts
	var err error
	if c.Followers, err = s.followRepo.CountFollowers(ctx, userID); err != nil {
		return c, err
	}
	if c.Following, err = s.followRepo.CountFollowing(ctx, userID); err != nil {
		return c, err
	}
	return c, nil
}
