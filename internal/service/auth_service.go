package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sakashimaa/planary/internal/domain"
	"github.com/sakashimaa/planary/internal/repository"
	"github.com/sakashimaa/planary/pkg/mylogger"
	"github.com/sakashimaa/planary/pkg/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	GetUserInfo(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type RegisterParams struct {
	Email    string
	Username string
	Gender   *string
	Age      *int
	Password string
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Service, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, params.Email); err == nil {
		mylogger.Info(
			ctx,
			s.logger,
			"Email already registered",
			zap.String("email", params.Email),
		)

		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	if _, err := s.userRepo.GetByUsername(ctx, params.Username); err == nil {
		mylogger.Info(
			ctx,
			s.logger,
			"Username already taken",
			zap.String("username", params.Username),
		)

		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("error checking username: %w", err)
	}

	hashedPass, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Error hashing password",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &domain.User{
		Email:        params.Email,
		Username:     params.Username,
		Gender:       params.Gender,
		Age:          params.Age,
		PasswordHash: string(hashedPass),
	}

	result, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Unique constraints backstop the lookups above against races.
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, err
		}

		mylogger.Error(
			ctx,
			s.logger,
			"Error creating user",
			zap.String("email", params.Email),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return result, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		mylogger.Warn(
			ctx,
			s.logger,
			"Login with unknown email",
			zap.String("email", email),
		)

		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		mylogger.Warn(
			ctx,
			s.logger,
			"Invalid credentials",
		)

		return "", "", ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Failed to generate tokens",
			zap.Error(err),
		)

		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return access, refresh, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// refresh token itself is neither rotated nor invalidated.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.Verify(refreshToken, token.TypeRefresh)
	if err != nil {
		mylogger.Warn(
			ctx,
			s.logger,
			"Refresh with invalid token",
		)

		return "", err
	}

	access, err := s.tokens.IssueAccess(userID)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Failed to generate access token",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)

		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return access, nil
}

func (s *authService) GetUserInfo(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			mylogger.Error(
				ctx,
				s.logger,
				"Error finding user by id",
				zap.String("user_id", id.String()),
				zap.Error(err),
			)
		}

		return nil, err
	}

	return user, nil
}
