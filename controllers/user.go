package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/authz"
	"github.com/meinhoongagan/therapy-booking/middleware"
	"github.com/meinhoongagan/therapy-booking/models"
	"github.com/meinhoongagan/therapy-booking/services"
)

type UserService interface {
	ReadAll(ctx context.Context) ([]models.User, error)
	ReadByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Owner(ctx context.Context, id uuid.UUID) (authz.Owned, error)
	RequestAccess(ctx context.Context, in services.AccessRequestInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Update(ctx context.Context, id uuid.UUID, in services.UpdateUserInput, actor authz.Principal) (*models.User, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.User, error)
	CompleteRegistration(ctx context.Context, token, password string) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type UserController struct {
	svc UserService
}

func NewUserController(svc UserService) *UserController {
	return &UserController{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type completeRegistrationRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Register handles an access request. The account stays a GUEST until an admin approves it.
func (h *UserController) Register(c *fiber.Ctx) error {
	var req services.AccessRequestInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.svc.RequestAccess(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles user authentication
func (h *UserController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return apperr.BadRequest("email and password are required")
	}
	token, user, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(loginResponse{Token: token, User: user})
}

func (h *UserController) GetAllUsers(c *fiber.Ctx) error {
	users, err := h.svc.ReadAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *UserController) GetUserByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.ReadByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	var req services.UpdateUserInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.svc.Update(c.UserContext(), id, req, p)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserController) ApproveUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.Approve(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserController) CompleteRegistration(c *fiber.Ctx) error {
	var req completeRegistrationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Token == "" {
		return apperr.BadRequest("token is required")
	}
	user, err := h.svc.CompleteRegistration(c.UserContext(), req.Token, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserController) Owner(ctx context.Context, id uuid.UUID) (authz.Owned, error) {
	return h.svc.Owner(ctx, id)
}
