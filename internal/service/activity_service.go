package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakashimaa/planary/internal/domain"
	"github.com/sakashimaa/planary/internal/repository"
	"github.com/sakashimaa/planary/pkg/mylogger"
	"go.uber.org/zap"
)

type ActivityService interface {
	List(ctx context.Context, ownerID uuid.UUID, date *time.Time) ([]domain.Activity, error)
	Create(ctx context.Context, ownerID uuid.UUID, params ActivityParams) (*domain.Activity, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Activity, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, params ActivityParams) (*domain.Activity, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ActivityParams carries the full replacement state of an entry; update has
// no partial-patch semantics.
type ActivityParams struct {
	Date            time.Time
	AllDay          bool
	Time            *string
	Title           string
	Category        *string
	Status          string
	Remind          bool
	RemindOffsetMin int
	Notes           *string
}

type activityService struct {
	activityRepo repository.ActivityRepository
	logger       *zap.Logger
}

func NewActivityService(activityRepo repository.ActivityRepository, logger *zap.Logger) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *activityService) List(ctx context.Context, ownerID uuid.UUID, date *time.Time) ([]domain.Activity, error) {
	activities, err := s.activityRepo.ListByOwner(ctx, ownerID, date)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Error listing activities",
			zap.String("user_id", ownerID.String()),
			zap.Error(err),
		)

		return nil, err
	}

	return activities, nil
}

func (s *activityService) Create(ctx context.Context, ownerID uuid.UUID, params ActivityParams) (*domain.Activity, error) {
	if err := normalizeClock(&params); err != nil {
		return nil, err
	}

	activity := activityFromParams(ownerID, params)

	result, err := s.activityRepo.Create(ctx, activity)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Error creating activity",
			zap.String("user_id", ownerID.String()),
			zap.Error(err),
		)

		return nil, err
	}

	return result, nil
}

func (s *activityService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Activity, error) {
	return s.activityRepo.GetByID(ctx, ownerID, id)
}

func (s *activityService) Update(ctx context.Context, ownerID, id uuid.UUID, params ActivityParams) (*domain.Activity, error) {
	if err := normalizeClock(&params); err != nil {
		return nil, err
	}

	activity := activityFromParams(ownerID, params)
	activity.ID = id

	result, err := s.activityRepo.Update(ctx, activity)
	if err != nil {
		if !errors.Is(err, repository.ErrActivityNotFound) {
			mylogger.Error(
				ctx,
				s.logger,
				"Error updating activity",
				zap.String("id", id.String()),
				zap.Error(err),
			)
		}

		return nil, err
	}

	return result, nil
}

func (s *activityService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.activityRepo.Delete(ctx, ownerID, id)
}

// normalizeClock enforces the all-day invariant: an all-day entry never
// carries a time, regardless of input.
func normalizeClock(params *ActivityParams) error {
	if params.AllDay {
		params.Time = nil
		return nil
	}

	if params.Time == nil {
		return nil
	}

	if _, err := time.Parse("15:04", *params.Time); err != nil {
		if _, err := time.Parse("15:04:05", *params.Time); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidClock, *params.Time)
		}
	}

	return nil
}

func activityFromParams(ownerID uuid.UUID, params ActivityParams) *domain.Activity {
	return &domain.Activity{
		UserID:          ownerID,
		Date:            params.Date,
		AllDay:          params.AllDay,
		Time:            params.Time,
		Title:           params.Title,
		Category:        params.Category,
		Status:          params.Status,
		Remind:          params.Remind,
		RemindOffsetMin: params.RemindOffsetMin,
		Notes:           params.Notes,
	}
}
