package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/meinhoongagan/therapy-booking/authz"
	"github.com/meinhoongagan/therapy-booking/middleware"
	"github.com/meinhoongagan/therapy-booking/models"
	"github.com/meinhoongagan/therapy-booking/services"
	"github.com/meinhoongagan/therapy-booking/utils"
)

type AppointmentService interface {
	ReadAll(ctx context.Context) ([]models.Appointment, error)
	ReadByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	ReadByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error)
	Owner(ctx context.Context, id uuid.UUID) (authz.Owned, error)
	Create(ctx context.Context, in services.CreateAppointmentInput, role models.Role) (*models.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, in services.UpdateAppointmentInput, role models.Role) (*models.Appointment, error)
	RequestCancellation(ctx context.Context, id uuid.UUID, notes string) (*models.Appointment, error)
	Assign(ctx context.Context, appointmentID, userID uuid.UUID) (*models.Appointment, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	ApproveCancellation(ctx context.Context, id uuid.UUID, newStatus models.AppointmentStatus, notes *string) (*models.Appointment, error)
	CompletePastAppointments(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
}

type AppointmentController struct {
	svc AppointmentService
}

func NewAppointmentController(svc AppointmentService) *AppointmentController {
	return &AppointmentController{svc: svc}
}

type createAppointmentRequest struct {
	Date       string                   `json:"date"`
	StartTime  time.Time                `json:"startTime"`
	EndTime    time.Time                `json:"endTime"`
	TherapyID  uuid.UUID                `json:"therapyId"`
	Status     models.AppointmentStatus `json:"status"`
	Notes      *string                  `json:"notes"`
	AdminNotes *string                  `json:"adminNotes"`
}

type updateAppointmentRequest struct {
	Date       *string                   `json:"date"`
	StartTime  *time.Time                `json:"startTime"`
	EndTime    *time.Time                `json:"endTime"`
	TherapyID  *uuid.UUID                `json:"therapyId"`
	Status     *models.AppointmentStatus `json:"status"`
	Notes      *string                   `json:"notes"`
	AdminNotes *string                   `json:"adminNotes"`
}

type assignRequest struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	UserID        uuid.UUID `json:"userId"`
}

type cancellationRequest struct {
	Notes string `json:"notes"`
}

type approveCancellationRequest struct {
	NewStatus models.AppointmentStatus `json:"newStatus"`
	Notes     *string                  `json:"notes"`
}

// GetAllAppointments godoc
// @Summary Get all appointments
// @Tags appointments
// @Produce json
// @Success 200 {array} models.Appointment
// @Failure 500 {object} utils.ErrorResponse
// @Router /appointments [get]
func (h *AppointmentController) GetAllAppointments(c *fiber.Ctx) error {
	appointments, err := h.svc.ReadAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(appointments)
}

// GetAppointment godoc
// @Summary Get an appointment by ID
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 404 {object} utils.ErrorResponse
// @Router /appointments/{id} [get]
func (h *AppointmentController) GetAppointment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	appointment, err := h.svc.ReadByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(appointment)
}

func (h *AppointmentController) GetUserAppointments(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	appointments, err := h.svc.ReadByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(appointments)
}

// CreateAppointment godoc
// @Summary Create a new appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Success 201 {object} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Router /appointments [post]
func (h *AppointmentController) CreateAppointment(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	var req createAppointmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}

	in := services.CreateAppointmentInput{
		Date:       date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		TherapyID:  req.TherapyID,
		Status:     req.Status,
		Notes:      req.Notes,
		AdminNotes: req.AdminNotes,
	}
	if err := in.Validate(); err != nil {
		return err
	}

	appointment, err := h.svc.Create(c.UserContext(), in, p.Role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// UpdateAppointment godoc
// @Summary Update an appointment by ID
// @Description Non-admin callers may only change notes.
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /appointments/{id} [patch]
func (h *AppointmentController) UpdateAppointment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	var req updateAppointmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	in := services.UpdateAppointmentInput{
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		TherapyID:  req.TherapyID,
		Status:     req.Status,
		Notes:      req.Notes,
		AdminNotes: req.AdminNotes,
	}
	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil {
			return err
		}
		in.Date = &date
	}

	appointment, err := h.svc.Update(c.UserContext(), id, in, p.Role)
	if err != nil {
		return err
	}
	return c.JSON(appointment)
}

func (h *AppointmentController) RequestCancellation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req cancellationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	appointment, err := h.svc.RequestCancellation(c.UserContext(), id, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(appointment)
}

func (h *AppointmentController) AssignAppointment(c *fiber.Ctx) error {
	var req assignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.AppointmentID == uuid.Nil || req.UserID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "appointmentId and userId are required")
	}
	appointment, err := h.svc.Assign(c.UserContext(), req.AppointmentID, req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(appointment)
}

func (h *AppointmentController) ApproveAppointment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	appointment, err := h.svc.Approve(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(appointment)
}

func (h *AppointmentController) ApproveCancellation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req approveCancellationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	appointment, err := h.svc.ApproveCancellation(c.UserContext(), id, req.NewStatus, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(appointment)
}

func (h *AppointmentController) CompletePastAppointments(c *fiber.Ctx) error {
	if _, err := h.svc.CompletePastAppointments(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(utils.MessageResponse{Message: "Past appointments marked as completed"})
}

// DeleteAppointment godoc
// @Summary Delete an appointment by ID
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 404 {object} utils.ErrorResponse
// @Router /appointments/{id} [delete]
func (h *AppointmentController) DeleteAppointment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	appointment, err := h.svc.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(appointment)
}

// Owner exposes the appointment loader to the authorization gate.
func (h *AppointmentController) Owner(ctx context.Context, id uuid.UUID) (authz.Owned, error) {
	return h.svc.Owner(ctx, id)
}
