package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/form"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
)

// AuthConfig 签发会话令牌所需参数
type AuthConfig struct {
	Secret   []byte
	Issuer   string
	TokenTTL time.Duration
}

// AuthService 注册、登录，以及把令牌还原成用户
type AuthService interface {
	Signup(ctx context.Context, in form.SignupInput) (*model.User, error)
	Login(ctx context.Context, in form.LoginInput) (string, *model.User, error)
	IssueToken(user *model.User) (string, error)
	// Authenticate 令牌无效或用户不存在时返回 AnonymousUser
	Authenticate(ctx context.Context, token string) *model.User
}

type authService struct {
	users repository.UserRepository
	cfg   AuthConfig
	now   func() time.Time
}

func NewAuthService(users repository.UserRepository, cfg AuthConfig) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &authService{users: users, cfg: cfg, now: time.Now}
}

func (s *authService) Signup(ctx context.Context, in form.SignupInput) (*model.User, error) {
	if err := form.Validate(in).Err(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: in.Username, Email: in.Email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, in form.LoginInput) (string, *model.User, error) {
	if err := form.Validate(in).Err(); err != nil {
		return "", nil, err
	}
	u, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *authService) IssueToken(user *model.User) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) *model.User {
	if token == "" {
		return model.AnonymousUser
	}
	var claims jwt.RegisteredClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return model.AnonymousUser
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return model.AnonymousUser
	}
	u, err := s.users.GetByID(ctx, uint(id))
	if err != nil {
		return model.AnonymousUser
	}
	return u
}
