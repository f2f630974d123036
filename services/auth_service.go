package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/repository"
	"github.com/PabloUrbano2000/little-lemon-api/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

const minPasswordLen = 8

// AuthService registers users, issues tokens and resolves callers.
type AuthService struct {
	DB        *gorm.DB
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(db *gorm.DB, repo *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		DB:        db,
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

type RegisterIn struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginIn struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Me is the current user with its role flags.
type Me struct {
	*entity.User
	Groups     []string `json:"groups"`
	IsManager  bool     `json:"is_manager"`
	IsDelivery bool     `json:"is_delivery"`
}

// Register creates a customer. New users belong to no group.
func (s *AuthService) Register(ctx context.Context, in RegisterIn) (*entity.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || len(username) > 150 {
		return nil, fmt.Errorf("%w: username must be 1-150 characters", ErrInvalidInput)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
		}
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	db := s.DB.WithContext(ctx)
	count, err := s.userRepo.CountByUsername(db, username)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: a user with that username already exists", ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the password and issues a token.
func (s *AuthService) Login(ctx context.Context, in LoginIn) (string, error) {
	user, err := s.userRepo.FindByUsername(s.DB.WithContext(ctx), strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// Authenticate turns a bearer token into a Caller, loading role flags from
// the user's groups.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Caller, error) {
	claims, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		return Anonymous, ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(s.DB.WithContext(ctx), claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Anonymous, ErrUnauthorized
		}
		return Anonymous, err
	}
	return CallerFromUser(user), nil
}

func (s *AuthService) Me(ctx context.Context, c Caller) (*Me, error) {
	if !c.Authenticated {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(s.DB.WithContext(ctx), c.ID)
	if err != nil {
		return nil, notFound(err)
	}
	return &Me{
		User:       user,
		Groups:     user.GroupNames(),
		IsManager:  c.IsManager,
		IsDelivery: c.IsDelivery,
	}, nil
}
