package services

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/models"
	"github.com/meinhoongagan/therapy-booking/repository"
)

// CatalogInput holds the fields shared by every catalog entry.
type CatalogInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Image       *string `json:"image"`
}

func (in CatalogInput) validate(partial, imageRequired bool) error {
	if in.Title == nil && !partial {
		return apperr.BadRequest("title is required")
	}
	if in.Title != nil {
		if n := utf8.RuneCountInString(strings.TrimSpace(*in.Title)); n < 3 || n > 30 {
			return apperr.BadRequest("title must have between 3 and 30 characters")
		}
	}
	if in.Description == nil && !partial {
		return apperr.BadRequest("description is required")
	}
	if in.Description != nil && utf8.RuneCountInString(strings.TrimSpace(*in.Description)) < 10 {
		return apperr.BadRequest("description must have at least 10 characters")
	}
	if in.Content == nil && !partial {
		return apperr.BadRequest("content is required")
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return apperr.BadRequest("content cannot be empty")
	}
	if imageRequired && !partial && (in.Image == nil || *in.Image == "") {
		return apperr.BadRequest("image is required")
	}
	if in.Image != nil && *in.Image != "" {
		u, err := url.ParseRequestURI(*in.Image)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return apperr.BadRequest("image must be an absolute URL")
		}
	}
	return nil
}

func (in CatalogInput) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	return fields
}

func (in CatalogInput) values() (title, description, content, image string) {
	title = strings.TrimSpace(deref(in.Title))
	return title, deref(in.Description), deref(in.Content), deref(in.Image)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TherapyInput creates or patches a therapy. The image is optional.
type TherapyInput struct {
	CatalogInput
}

// Validate checks the fields present in the input. With partial set, missing
// fields are allowed.
func (in TherapyInput) Validate(partial bool) error {
	return in.validate(partial, false)
}

func (in TherapyInput) build() models.Therapy {
	title, description, content, image := in.values()
	return models.Therapy{Title: title, Description: description, Content: content, Image: image}
}

// AdviceInput creates or patches an advice. TherapyID is only read on create.
type AdviceInput struct {
	CatalogInput
	TherapyID *uuid.UUID `json:"therapyId"`
}

func (in AdviceInput) Validate(partial bool) error {
	if err := in.validate(partial, true); err != nil {
		return err
	}
	if !partial && (in.TherapyID == nil || *in.TherapyID == uuid.Nil) {
		return apperr.BadRequest("therapyId is required")
	}
	return nil
}

func (in AdviceInput) build() models.Advice {
	title, description, content, image := in.values()
	return models.Advice{Title: title, Description: description, Content: content, Image: image, TherapyID: *in.TherapyID}
}

type ServiceInput struct {
	CatalogInput
}

func (in ServiceInput) Validate(partial bool) error {
	return in.validate(partial, true)
}

func (in ServiceInput) build() models.Service {
	title, description, content, image := in.values()
	return models.Service{Title: title, Description: description, Content: content, Image: image}
}

// ResourceInput creates or patches a resource. ServiceID is only read on create.
type ResourceInput struct {
	CatalogInput
	ServiceID *uuid.UUID `json:"serviceId"`
}

func (in ResourceInput) Validate(partial bool) error {
	if err := in.validate(partial, true); err != nil {
		return err
	}
	if !partial && (in.ServiceID == nil || *in.ServiceID == uuid.Nil) {
		return apperr.BadRequest("serviceId is required")
	}
	return nil
}

func (in ResourceInput) build() models.Resource {
	title, description, content, image := in.values()
	return models.Resource{Title: title, Description: description, Content: content, Image: image, ServiceID: *in.ServiceID}
}

type catalogInput[T any] interface {
	Validate(partial bool) error
	build() T
	fields() map[string]interface{}
}

// Catalog serves CRUD for one kind of catalog entry.
type Catalog[T any, I catalogInput[T]] struct {
	repo repository.ICatalogRepository[T]
}

func NewTherapyCatalog(repo repository.ICatalogRepository[models.Therapy]) *Catalog[models.Therapy, TherapyInput] {
	return &Catalog[models.Therapy, TherapyInput]{repo: repo}
}

func NewAdviceCatalog(repo repository.ICatalogRepository[models.Advice]) *Catalog[models.Advice, AdviceInput] {
	return &Catalog[models.Advice, AdviceInput]{repo: repo}
}

func NewServiceCatalog(repo repository.ICatalogRepository[models.Service]) *Catalog[models.Service, ServiceInput] {
	return &Catalog[models.Service, ServiceInput]{repo: repo}
}

func NewResourceCatalog(repo repository.ICatalogRepository[models.Resource]) *Catalog[models.Resource, ResourceInput] {
	return &Catalog[models.Resource, ResourceInput]{repo: repo}
}

func (s *Catalog[T, I]) ReadAll(ctx context.Context) ([]T, error) {
	return s.repo.FindAll(ctx)
}

func (s *Catalog[T, I]) ReadByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Catalog[T, I]) Create(ctx context.Context, in I) (*T, error) {
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	entry := in.build()
	if err := s.repo.Create(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Catalog[T, I]) Update(ctx context.Context, id uuid.UUID, in I) (*T, error) {
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, in.fields()); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Catalog[T, I]) Delete(ctx context.Context, id uuid.UUID) (*T, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return entry, nil
}
