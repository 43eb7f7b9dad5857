package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/models"
)

// ICatalogRepository stores the titled content entries: therapies, advices,
// services and resources.
type ICatalogRepository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, entry *T) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CatalogRepository[T any] struct {
	db       *gorm.DB
	name     string
	preloads []string
}

func NewTherapyRepository(db *gorm.DB) *CatalogRepository[models.Therapy] {
	return &CatalogRepository[models.Therapy]{db: db, name: "therapy", preloads: []string{"Advices"}}
}

func NewAdviceRepository(db *gorm.DB) *CatalogRepository[models.Advice] {
	return &CatalogRepository[models.Advice]{db: db, name: "advice"}
}

func NewServiceRepository(db *gorm.DB) *CatalogRepository[models.Service] {
	return &CatalogRepository[models.Service]{db: db, name: "service", preloads: []string{"Resources"}}
}

func NewResourceRepository(db *gorm.DB) *CatalogRepository[models.Resource] {
	return &CatalogRepository[models.Resource]{db: db, name: "resource"}
}

func (r *CatalogRepository[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p, func(db *gorm.DB) *gorm.DB {
			return db.Order("title")
		})
	}
	return q
}

func (r *CatalogRepository[T]) list(ctx context.Context) *gorm.DB {
	return r.query(ctx).Order("title")
}

func (r *CatalogRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	var entries []T
	if err := r.list(ctx).Find(&entries).Error; err != nil {
		return nil, translate(err, r.name+"s")
	}
	return entries, nil
}

func (r *CatalogRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entry T
	err := r.query(ctx).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("%s %s not found", r.name, id)
	}
	if err != nil {
		return nil, translate(err, r.name)
	}
	return &entry, nil
}

// Create fails with BadRequest when the parent therapy or service does not exist.
func (r *CatalogRepository[T]) Create(ctx context.Context, entry *T) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error, r.name)
}

func (r *CatalogRepository[T]) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, r.name)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("%s %s not found", r.name, id)
	}
	return nil
}

// Delete fails with BadRequest while appointments still reference a therapy.
func (r *CatalogRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, r.name)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("%s %s not found", r.name, id)
	}
	return nil
}

var (
	_ ICatalogRepository[models.Therapy]  = (*CatalogRepository[models.Therapy])(nil)
	_ ICatalogRepository[models.Advice]   = (*CatalogRepository[models.Advice])(nil)
	_ ICatalogRepository[models.Service]  = (*CatalogRepository[models.Service])(nil)
	_ ICatalogRepository[models.Resource] = (*CatalogRepository[models.Resource])(nil)
)
