package services

import (
	"context"

	"staffhub-backend/database"
	"staffhub-backend/models"

	"gorm.io/gorm"
)

// ServiceLookup resolves a sellable service by id. It returns (nil, nil) when the id is unknown.
type ServiceLookup interface {
	FindServiceByID(ctx context.Context, id uint) (*models.Service, error)
}

// Catalog is the read side of categories and services.
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) FindServiceByID(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := c.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, Persistence("load service", err)
	}
	return &s, nil
}

func (c *Catalog) FindCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := c.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, Persistence("load category", err)
	}
	return &cat, nil
}

// ListActiveServices returns active services ordered by name, optionally restricted to one category.
func (c *Catalog) ListActiveServices(ctx context.Context, categoryID uint) ([]models.Service, error) {
	q := c.db.WithContext(ctx).Preload("Category").Where("is_active = ?", true)
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	services := []models.Service{}
	if err := q.Order("name").Find(&services).Error; err != nil {
		return nil, Persistence("list services", err)
	}
	return services, nil
}

func (c *Catalog) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := c.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&categories).Error; err != nil {
		return nil, Persistence("list categories", err)
	}
	return categories, nil
}
