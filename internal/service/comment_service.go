package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
)

// PostDetail is everything the post page shows.
type PostDetail struct {
	Author     *model.User      `json:"author"`
	Post       *model.Post      `json:"post"`
	Comments   []*model.Comment `json:"comments"`
	PostsCount int64            `json:"posts_count"`
	CanEdit    bool             `json:"can_edit"`
}

// CommentService attaches comments to posts and assembles the post page.
type CommentService interface {
	AddComment(ctx context.Context, post *model.Post, actor *model.User, in form.CommentInput) (*model.Comment, error)
	ViewPostDetail(ctx context.Context, viewer *model.User, username string, postID uint) (*PostDetail, error)
}

type commentService struct {
	posts    PostService
	postRepo repository.PostRepository
	comments repository.CommentRepository
}

func NewCommentService(posts PostService, postRepo repository.PostRepository, comments repository.CommentRepository) CommentService {
	return &commentService{posts: posts, postRepo: postRepo, comments: comments}
}

func (s *commentService) AddComment(ctx context.Context, post *model.Post, actor *model.User, in form.CommentInput) (*model.Comment, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if err := form.Validate(in).Err(); err != nil {
		return nil, err
	}
	c := &model.Comment{PostID: post.ID, AuthorID: actor.ID, Text: in.Text}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("add comment to post %d: %w", post.ID, err)
	}
	c.Author = actor
	return c, nil
}

func (s *commentService) ViewPostDetail(ctx context.Context, viewer *model.User, username string, postID uint) (*PostDetail, error) {
	post, err := s.posts.Get(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	authorID := post.AuthorID
	count, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: &authorID})
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	return &PostDetail{
		Author:     post.Author,
		Post:       post,
		Comments:   comments,
		PostsCount: count,
		CanEdit:    CanEdit(viewer, post),
	}, nil
}
