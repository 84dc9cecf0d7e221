package service

import "github.com/d60-Lab/yatube/internal/model"

// CanEdit reports whether actor may change post: only its author can.
func CanEdit(actor *model.User, post *model.Post) bool {
	return actor.IsAuthenticated() && post != nil && actor.ID == post.AuthorID
}
