package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sakashimaa/planary/internal/domain"
	"github.com/sakashimaa/planary/internal/repository"
	"github.com/sakashimaa/planary/internal/service"
	"github.com/sakashimaa/planary/pkg/mylogger"
	"github.com/sakashimaa/planary/pkg/utils"
	"go.uber.org/zap"
)

const (
	dateLayout            = "2006-01-02"
	defaultRemindOffset   = 5
	defaultActivityStatus = domain.StatusNormal
)

type ActivityHandler struct {
	service  service.ActivityService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewActivityHandler(service service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// ActivityInput is the full payload for both create and update; update is a
// field-by-field replace, not a patch.
type ActivityInput struct {
	Date            string  `json:"date" validate:"required"`
	AllDay          bool    `json:"all_day"`
	Time            *string `json:"time"`
	Title           string  `json:"title" validate:"required,min=1,max=200"`
	Category        *string `json:"category" validate:"omitempty,max=30"`
	Status          string  `json:"status" validate:"omitempty,oneof=normal warning danger success"`
	Remind          bool    `json:"remind"`
	RemindOffsetMin *int    `json:"remind_offset_min" validate:"omitempty,gte=0"`
	Notes           *string `json:"notes" validate:"omitempty,max=2000"`
}

type ActivityOut struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	AllDay          bool      `json:"all_day"`
	Time            *string   `json:"time"`
	Title           string    `json:"title"`
	Category        *string   `json:"category"`
	Status          string    `json:"status"`
	Remind          bool      `json:"remind"`
	RemindOffsetMin int       `json:"remind_offset_min"`
	Notes           *string   `json:"notes"`
}

type ActivityList struct {
	Items []ActivityOut `json:"items"`
}

func toActivityOut(activity *domain.Activity) ActivityOut {
	return ActivityOut{
		ID:              activity.ID,
		Date:            activity.Date.Format(dateLayout),
		AllDay:          activity.AllDay,
		Time:            activity.Time,
		Title:           activity.Title,
		Category:        activity.Category,
		Status:          activity.Status,
		Remind:          activity.Remind,
		RemindOffsetMin: activity.RemindOffsetMin,
		Notes:           activity.Notes,
	}
}

func (input *ActivityInput) toParams() (service.ActivityParams, error) {
	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		return service.ActivityParams{}, err
	}

	status := input.Status
	if status == "" {
		status = defaultActivityStatus
	}

	offset := defaultRemindOffset
	if input.RemindOffsetMin != nil {
		offset = *input.RemindOffsetMin
	}

	return service.ActivityParams{
		Date:            date,
		AllDay:          input.AllDay,
		Time:            input.Time,
		Title:           input.Title,
		Category:        input.Category,
		Status:          status,
		Remind:          input.Remind,
		RemindOffsetMin: offset,
		Notes:           input.Notes,
	}, nil
}

func (h *ActivityHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "date must be formatted as YYYY-MM-DD",
			})
		}
		date = &parsed
	}

	activities, err := h.service.List(ctx, userID, date)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"list activities failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	items := make([]ActivityOut, 0, len(activities))
	for i := range activities {
		items = append(items, toActivityOut(&activities[i]))
	}

	return c.Status(fiber.StatusOK).JSON(ActivityList{Items: items})
}

func (h *ActivityHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	params, err := h.parseActivityInput(c)
	if err != nil {
		return h.inputError(c, err)
	}

	activity, err := h.service.Create(ctx, userID, params)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"create activity failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"activity created",
		zap.String("id", activity.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return c.Status(fiber.StatusCreated).JSON(toActivityOut(activity))
}

func (h *ActivityHandler) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		// A malformed id reads the same as a missing one; do not leak which.
		return errorResponse(c, repository.ErrActivityNotFound)
	}

	activity, err := h.service.Get(ctx, userID, id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toActivityOut(activity))
}

func (h *ActivityHandler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, repository.ErrActivityNotFound)
	}

	params, err := h.parseActivityInput(c)
	if err != nil {
		return h.inputError(c, err)
	}

	activity, err := h.service.Update(ctx, userID, id, params)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"update activity failed",
			zap.String("id", id.String()),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toActivityOut(activity))
}

func (h *ActivityHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, repository.ErrActivityNotFound)
	}

	if err := h.service.Delete(ctx, userID, id); err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"delete activity failed",
			zap.String("id", id.String()),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

var (
	errBadBody = errors.New("Cannot parse JSON")
	errBadDate = errors.New("date must be formatted as YYYY-MM-DD")
)

func (h *ActivityHandler) parseActivityInput(c *fiber.Ctx) (service.ActivityParams, error) {
	input := new(ActivityInput)

	if err := c.BodyParser(input); err != nil {
		mylogger.Warn(
			c.UserContext(),
			h.logger,
			"failed to parse activity body",
			zap.Error(err),
		)

		return service.ActivityParams{}, errBadBody
	}

	if err := h.validate.Struct(input); err != nil {
		return service.ActivityParams{}, err
	}

	params, err := input.toParams()
	if err != nil {
		return service.ActivityParams{}, errBadDate
	}

	return params, nil
}

func (h *ActivityHandler) inputError(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
