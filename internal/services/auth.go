package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"agora/internal/models"
	"agora/internal/store"
	"agora/internal/utils"
)

var (
	ErrEmailTaken     = errors.New("user already exists")
	ErrBadCredentials = errors.New("invalid credentials")
)

const MinPasswordLen = 6

// AuthService 注册、登录，签发访问令牌
type AuthService struct {
	users  store.UserStore
	tokens *utils.Tokens
}

func NewAuthService(users store.UserStore, tokens *utils.Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates the user and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, "", invalid("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", invalid("email is not valid")
	}
	if len(password) < MinPasswordLen {
		return nil, "", invalid("password must be at least %d characters", MinPasswordLen)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{Name: name, Email: email, Password: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", storeErr(err, "user not found")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrBadCredentials
	}
	if err != nil {
		return nil, "", storeErr(err, "user not found")
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, "", ErrBadCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me loads the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user not found")
	}
	return user, nil
}

// UserIDFromToken validates a bearer token.
func (s *AuthService) UserIDFromToken(raw string) (string, error) {
	return s.tokens.Parse(raw)
}
