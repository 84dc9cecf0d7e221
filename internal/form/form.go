// Package form holds the typed inputs accepted by the write operations and
// the validation that turns them into either a valid value or field errors.
package form

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// PostInput is the new-post / edit-post form.
type PostInput struct {
	Text    string `form:"text" json:"text" validate:"notblank"`
	GroupID *uint  `form:"group" json:"group"`
}

// CommentInput is the comment form.
type CommentInput struct {
	Text string `form:"text" json:"text" validate:"notblank"`
}

// GroupInput is used by administrators to create groups.
type GroupInput struct {
	Title       string `form:"title" json:"title" validate:"notblank,max=200"`
	Slug        string `form:"slug" json:"slug" validate:"required,max=50,slug"`
	Description string `form:"description" json:"description"`
}

type SignupInput struct {
	Username string `form:"username" json:"username" validate:"required,max=150,username"`
	Email    string `form:"email" json:"email" validate:"omitempty,email,max=254"`
	Password string `form:"password" json:"password" validate:"required,min=8,max=128"`
}

type LoginInput struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// ReservedUsernames collide with top-level routes and cannot be registered.
var ReservedUsernames = map[string]struct{}{
	"new":     {},
	"group":   {},
	"follow":  {},
	"auth":    {},
	"media":   {},
	"swagger": {},
	"healthz": {},
	"about":   {},
}

var (
	usernameRe = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", notBlank)
		_ = v.RegisterValidation("username", validUsername)
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugRe.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validUsername(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if !usernameRe.MatchString(name) {
		return false
	}
	_, reserved := ReservedUsernames[strings.ToLower(name)]
	return !reserved
}

// Result is the outcome of Validate: either Value is usable (Errors is
// empty) or Errors lists what is wrong with it.
type Result[T any] struct {
	Value  T
	Errors Errors
}

func (r Result[T]) Valid() bool { return len(r.Errors) == 0 }

// Err returns the field errors as an error, or nil when the input is valid.
func (r Result[T]) Err() error {
	if r.Valid() {
		return nil
	}
	return r.Errors
}

// Validate checks in against its validate tags.
func Validate[T any](in T) Result[T] {
	res := Result[T]{Value: in}
	err := engine().Struct(in)
	if err == nil {
		return res
	}
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = Errors{{Field: "", Tag: "invalid", Message: err.Error()}}
		return res
	}
	for _, fe := range ves {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return res
}
