package handler

import (
	"errors"

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

type AuthHandler struct {
	service  service.AuthService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAuthHandler(service service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

type RegisterInput struct {
	Email           string  `json:"email" validate:"required,email"`
	Username        string  `json:"username" validate:"required,min=3,max=30"`
	Gender          *string `json:"gender" validate:"omitempty,max=20"`
	Age             *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	Password        string  `json:"password" validate:"required,min=6"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput accepts the refresh token from either a JSON body or a form
// field.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// UserOut is the public profile. The password hash never leaves the service.
type UserOut struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Gender   *string   `json:"gender,omitempty"`
	Age      *int      `json:"age,omitempty"`
}

func toUserOut(user *domain.User) UserOut {
	return UserOut{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Gender:   user.Gender,
		Age:      user.Age,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	input := new(RegisterInput)

	if err := c.BodyParser(input); err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"failed to parse body in register",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"register input validation failed",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	user, err := h.service.Register(ctx, service.RegisterParams{
		Email:    input.Email,
		Username: input.Username,
		Gender:   input.Gender,
		Age:      input.Age,
		Password: input.Password,
	})
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"register failed",
			zap.String("email", input.Email),
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	mylogger.Info(
		ctx,
		h.logger,
		"register user succeeded",
		zap.String("user_id", user.ID.String()),
	)

	return c.Status(fiber.StatusCreated).JSON(toUserOut(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	input := new(LoginInput)

	if err := c.BodyParser(input); err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"body parsing failed in login",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.FormatValidationError(err),
		})
	}

	access, refresh, err := h.service.Login(ctx, input.Email, input.Password)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"login failed",
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	ctx := c.UserContext()

	input := new(RefreshInput)

	if err := c.BodyParser(input); err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"body parsing failed in refresh",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse body",
		})
	}

	if input.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "refresh_token required",
		})
	}

	access, err := h.service.Refresh(ctx, input.RefreshToken)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"refresh failed",
			zap.Error(err),
		)

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token": access,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok {
		mylogger.Info(
			ctx,
			h.logger,
			"user id missing from request locals",
		)

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	user, err := h.service.GetUserInfo(ctx, userID)
	if err != nil {
		mylogger.Warn(
			ctx,
			h.logger,
			"get me failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)

		// A valid token for a vanished user is an auth failure, not a 404.
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "user not found"})
		}

		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toUserOut(user))
}
