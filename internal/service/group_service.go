package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
)

// GroupService 社区管理，创建只在管理端（seed 工具）使用
type GroupService interface {
	Create(ctx context.Context, in form.GroupInput) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
	Delete(ctx context.Context, slug string) error
}

type groupService struct {
	groups repository.GroupRepository
	feed   FeedService
}

func NewGroupService(groups repository.GroupRepository, feed FeedService) GroupService {
	return &groupService{groups: groups, feed: feed}
}

func (s *groupService) Create(ctx context.Context, in form.GroupInput) (*model.Group, error) {
	if err := form.Validate(in).Err(); err != nil {
		return nil, err
	}
	g := &model.Group{Title: in.Title, Slug: in.Slug, Description: in.Description}
	if err := s.groups.Create(ctx, g); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create group: %w", err)
	}
	return g, nil
}

func (s *groupService) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	g, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, ErrGroupNotFound)
	}
	return g, nil
}

func (s *groupService) List(ctx context.Context) ([]*model.Group, error) {
	return s.groups.List(ctx)
}

func (s *groupService) Delete(ctx context.Context, slug string) error {
	g, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.groups.Delete(ctx, g.ID); err != nil {
		return fmt.Errorf("delete group %s: %w", slug, err)
	}
	// 首页缓存里的帖子还带着旧的 group
	return s.feed.InvalidateIndex(ctx)
}
