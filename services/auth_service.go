package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/LettersBlue/african-nations-league-sub000/models"
	"github.com/LettersBlue/african-nations-league-sub000/repositories"
	"github.com/LettersBlue/african-nations-league-sub000/utils"
)

const (
	minPasswordLength = 8
	tokenTTL          = 24 * time.Hour
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, input LoginInput) (*models.User, string, error)
}

type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		Name:         input.Name,
		Role:         models.RoleRepresentative,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, "", ErrUserEmailConflict
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrAuthInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, "", ErrAuthInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
