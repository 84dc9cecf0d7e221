package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/logger"
)

const imageDir = "posts"

// PostService 发帖与编辑
type PostService interface {
	Create(ctx context.Context, actor *model.User, in form.PostInput, image *multipart.FileHeader) (*model.Post, error)
	// Update 只有作者可以编辑；非作者返回 ErrForbidden，同时返回帖子供跳转
	Update(ctx context.Context, actor *model.User, username string, postID uint, in form.PostInput, image *multipart.FileHeader) (*model.Post, error)
	// Get 返回 username 名下的帖子；帖子不属于该用户视为不存在
	Get(ctx context.Context, username string, postID uint) (*model.Post, error)
}

type postService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	groups   repository.GroupRepository
	feed     FeedService
	media    storage.MediaStorage
	maxImage int64
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, groups repository.GroupRepository, feed FeedService, media storage.MediaStorage, maxImage int64) PostService {
	return &postService{posts: posts, users: users, groups: groups, feed: feed, media: media, maxImage: maxImage}
}

func (s *postService) Create(ctx context.Context, actor *model.User, in form.PostInput, image *multipart.FileHeader) (*model.Post, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	post := &model.Post{Text: in.Text, AuthorID: actor.ID, GroupID: in.GroupID}
	if image != nil {
		key, err := s.saveImage(ctx, image)
		if err != nil {
			return nil, err
		}
		post.Image = key
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = actor
	s.invalidate(ctx)
	return post, nil
}

func (s *postService) Update(ctx context.Context, actor *model.User, username string, postID uint, in form.PostInput, image *multipart.FileHeader) (*model.Post, error) {
	post, err := s.Get(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	if !CanEdit(actor, post) {
		return post, ErrForbidden
	}
	if err := s.validate(ctx, in); err != nil {
		return post, err
	}
	post.Text = in.Text
	post.GroupID = in.GroupID
	post.Group = nil
	if image != nil {
		key, err := s.saveImage(ctx, image)
		if err != nil {
			return post, err
		}
		post.Image = key
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post %d: %w", postID, err)
	}
	s.invalidate(ctx)
	return post, nil
}

func (s *postService) Get(ctx context.Context, username string, postID uint) (*model.Post, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	if post.AuthorID != author.ID {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) validate(ctx context.Context, in form.PostInput) error {
	if err := form.Validate(in).Err(); err != nil {
		return err
	}
	if in.GroupID == nil {
		return nil
	}
	if _, err := s.groups.GetByID(ctx, *in.GroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return form.FieldErr("group", "invalid_choice", "Select a valid choice. That choice is not one of the available choices.")
		}
		return err
	}
	return nil
}

func (s *postService) saveImage(ctx context.Context, image *multipart.FileHeader) (string, error) {
	key, err := storage.SaveImage(ctx, s.media, image, imageDir, s.maxImage)
	switch {
	case errors.Is(err, storage.ErrNotImage):
		return "", form.FieldErr("image", "image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	case errors.Is(err, storage.ErrTooLarge):
		return "", form.FieldErr("image", "max_size", "The uploaded image is too large.")
	case err != nil:
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}

func (s *postService) invalidate(ctx context.Context) {
	if err := s.feed.InvalidateIndex(ctx); err != nil {
		logger.Warn("index cache invalidation failed", zap.Error(err))
	}
}
