package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/meinhoongagan/therapy-booking/models"
	"github.com/meinhoongagan/therapy-booking/services"
)

type CatalogService[T any, I any] interface {
	ReadAll(ctx context.Context) ([]T, error)
	ReadByID(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, in I) (*T, error)
	Update(ctx context.Context, id uuid.UUID, in I) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) (*T, error)
}

// CatalogController exposes CRUD for one kind of catalog entry.
type CatalogController[T any, I any] struct {
	svc CatalogService[T, I]
}

type (
	TherapyController  = CatalogController[models.Therapy, services.TherapyInput]
	AdviceController   = CatalogController[models.Advice, services.AdviceInput]
	ServiceController  = CatalogController[models.Service, services.ServiceInput]
	ResourceController = CatalogController[models.Resource, services.ResourceInput]
)

func NewTherapyController(svc CatalogService[models.Therapy, services.TherapyInput]) *TherapyController {
	return &TherapyController{svc: svc}
}

func NewAdviceController(svc CatalogService[models.Advice, services.AdviceInput]) *AdviceController {
	return &AdviceController{svc: svc}
}

func NewServiceController(svc CatalogService[models.Service, services.ServiceInput]) *ServiceController {
	return &ServiceController{svc: svc}
}

func NewResourceController(svc CatalogService[models.Resource, services.ResourceInput]) *ResourceController {
	return &ResourceController{svc: svc}
}

// GetAll returns every entry
func (h *CatalogController[T, I]) GetAll(c *fiber.Ctx) error {
	entries, err := h.svc.ReadAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (h *CatalogController[T, I]) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entry, err := h.svc.ReadByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

func (h *CatalogController[T, I]) Create(c *fiber.Ctx) error {
	var req I
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *CatalogController[T, I]) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req I
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

// Delete returns the removed entry
func (h *CatalogController[T, I]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entry, err := h.svc.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}
