package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sakashimaa/planary/internal/domain"
	"github.com/sakashimaa/planary/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ActivityRepository scopes every operation to the owning user. A missing row
// and a row owned by someone else are the same ErrActivityNotFound.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, date *time.Time) ([]domain.Activity, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Activity, error)
	Update(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type activityRepository struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewActivityRepository(pool *pgxpool.Pool, logger *zap.Logger) ActivityRepository {
	return &activityRepository{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/activity_repo"),
	}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	ctx, span := r.tracer.Start(ctx, "ActivityRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", activity.UserID.String()),
	)

	clock, err := clockToPg(activity.Time)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	query := `
		INSERT INTO activities (user_id, date, all_day, time, title, category, status, remind, remind_offset_min, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at;
	`

	err = r.pool.QueryRow(ctx, query,
		activity.UserID, activity.Date, activity.AllDay, clock, activity.Title,
		activity.Category, activity.Status, activity.Remind, activity.RemindOffsetMin, activity.Notes).
		Scan(&activity.ID, &activity.CreatedAt, &activity.UpdatedAt)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to create activity",
			zap.String("user_id", activity.UserID.String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error creating activity: %w", err)
	}

	return activity, nil
}

func (r *activityRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, date *time.Time) ([]domain.Activity, error) {
	ctx, span := r.tracer.Start(ctx, "ActivityRepository.ListByOwner")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", ownerID.String()),
	)

	query := `
		SELECT id, user_id, date, all_day, time, title, category, status, remind, remind_offset_min, notes, created_at, updated_at
		FROM activities
		WHERE user_id = $1`
	args := []any{ownerID}

	if date != nil {
		query += ` AND date = $2`
		args = append(args, *date)
	}

	// All-day entries first, then timed entries ascending, untimed last.
	query += `
		ORDER BY all_day DESC, time ASC NULLS LAST, created_at ASC;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to list activities",
			zap.String("user_id", ownerID.String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error listing activities: %w", err)
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning activity: %w", err)
		}
		activities = append(activities, *activity)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error listing activities: %w", err)
	}

	return activities, nil
}

func (r *activityRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Activity, error) {
	ctx, span := r.tracer.Start(ctx, "ActivityRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.String("id", id.String()),
		attribute.String("user_id", ownerID.String()),
	)

	query := `
		SELECT id, user_id, date, all_day, time, title, category, status, remind, remind_offset_min, notes, created_at, updated_at
		FROM activities
		WHERE id = $1 AND user_id = $2;
	`

	activity, err := scanActivity(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(err)
			return nil, ErrActivityNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to get activity",
			zap.String("id", id.String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting activity: %w", err)
	}

	return activity, nil
}

func (r *activityRepository) Update(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	ctx, span := r.tracer.Start(ctx, "ActivityRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("id", activity.ID.String()),
		attribute.String("user_id", activity.UserID.String()),
	)

	clock, err := clockToPg(activity.Time)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	query := `
		UPDATE activities
		SET date = $1, all_day = $2, time = $3, title = $4, category = $5,
			status = $6, remind = $7, remind_offset_min = $8, notes = $9, updated_at = now()
		WHERE id = $10 AND user_id = $11
		RETURNING created_at, updated_at;
	`

	err = r.pool.QueryRow(ctx, query,
		activity.Date, activity.AllDay, clock, activity.Title, activity.Category,
		activity.Status, activity.Remind, activity.RemindOffsetMin, activity.Notes,
		activity.ID, activity.UserID).
		Scan(&activity.CreatedAt, &activity.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.RecordError(err)
			return nil, ErrActivityNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update activity",
			zap.String("id", activity.ID.String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error updating activity: %w", err)
	}

	return activity, nil
}

func (r *activityRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	ctx, span := r.tracer.Start(ctx, "ActivityRepository.Delete")
	defer span.End()

	span.SetAttributes(
		attribute.String("id", id.String()),
		attribute.String("user_id", ownerID.String()),
	)

	query := `
		DELETE FROM activities
		WHERE id = $1 AND user_id = $2;
	`

	ct, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to delete activity",
			zap.String("id", id.String()),
			zap.Error(err),
		)

		return fmt.Errorf("error deleting activity: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrActivityNotFound
	}

	return nil
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var (
		activity domain.Activity
		clock    pgtype.Time
	)

	if err := row.Scan(&activity.ID, &activity.UserID, &activity.Date, &activity.AllDay, &clock,
		&activity.Title, &activity.Category, &activity.Status, &activity.Remind,
		&activity.RemindOffsetMin, &activity.Notes, &activity.CreatedAt, &activity.UpdatedAt); err != nil {
		return nil, err
	}

	activity.Time = clockFromPg(clock)

	return &activity, nil
}

// clockToPg converts an "HH:MM" (or "HH:MM:SS") wall-clock string into the
// TIME column representation.
func clockToPg(clock *string) (pgtype.Time, error) {
	if clock == nil {
		return pgtype.Time{}, nil
	}

	parsed, err := time.Parse("15:04", *clock)
	if err != nil {
		parsed, err = time.Parse("15:04:05", *clock)
		if err != nil {
			return pgtype.Time{}, fmt.Errorf("invalid clock value %q: %w", *clock, err)
		}
	}

	seconds := int64(parsed.Hour()*3600 + parsed.Minute()*60 + parsed.Second())

	return pgtype.Time{Microseconds: seconds * 1_000_000, Valid: true}, nil
}

func clockFromPg(t pgtype.Time) *string {
	if !t.Valid {
		return nil
	}

	seconds := t.Microseconds / 1_000_000
	clock := fmt.Sprintf("%02d:%02d", seconds/3600, (seconds%3600)/60)

	return &clock
}
