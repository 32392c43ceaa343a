package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sakashimaa/planary/internal/domain"
	"github.com/sakashimaa/planary/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type userRepository struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewUserRepository(pool *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/user_repo"),
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.email", user.Email),
		attribute.String("user.username", user.Username),
	)

	query := `
		INSERT INTO users (email, username, gender, age, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`

	err := r.pool.QueryRow(ctx, query, user.Email, user.Username, user.Gender, user.Age, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		span.RecordError(err)

		var pgError *pgconn.PgError

		if errors.As(err, &pgError) {
			if pgError.Code == "23505" {
				mylogger.Warn(
					ctx,
					r.logger,
					"User already exists",
					zap.String("email", user.Email),
					zap.String("username", user.Username),
				)

				return nil, ErrUserAlreadyExists
			}
		}

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to create user",
			zap.String("email", user.Email),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", email),
	)

	query := `
		SELECT id, email, username, gender, age, password_hash, created_at
		FROM users
		WHERE email = $1;
	`

	return r.scanUser(ctx, span, r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByUsername")
	defer span.End()

	span.SetAttributes(
		attribute.String("username", username),
	)

	query := `
		SELECT id, email, username, gender, age, password_hash, created_at
		FROM users
		WHERE username = $1;
	`

	return r.scanUser(ctx, span, r.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("id", id.String()),
	)

	query := `
		SELECT id, email, username, gender, age, password_hash, created_at
		FROM users
		WHERE id = $1;
	`

	return r.scanUser(ctx, span, r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(ctx context.Context, span trace.Span, row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Email, &user.Username, &user.Gender, &user.Age, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(err)
			return nil, ErrUserNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to get user",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return &user, nil
}
