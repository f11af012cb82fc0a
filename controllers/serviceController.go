package controllers

import (
	"context"

	"staffhub-backend/database"
	"staffhub-backend/middlewares"
	"staffhub-backend/models"
	"staffhub-backend/services"
	"staffhub-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ServiceInput struct {
	Name       string           `json:"name" validate:"required"`
	CategoryID uint             `json:"categoryId" validate:"required"`
	Price      *decimal.Decimal `json:"price" validate:"required,gte=0"`
	IsActive   *bool            `json:"isActive"`
}

type ServicePatch struct {
	Name       *string          `json:"name" validate:"omitempty,min=1"`
	CategoryID *uint            `json:"categoryId" validate:"omitempty,min=1"`
	Price      *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	IsActive   *bool            `json:"isActive"`
}

type ServiceController struct {
	DB *gorm.DB
}

// Index lists active services, optionally filtered by ?categoryId=.
func (sc *ServiceController) Index(c *fiber.Ctx) error {
	categoryID := utils.ParseIntDefault(c.Query("categoryId"), 0)
	list, err := services.NewCatalog(database.GetDB(c, sc.DB)).ListActiveServices(c.UserContext(), uint(categoryID))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (sc *ServiceController) Show(c *fiber.Ctx) error {
	svc, err := sc.find(c)
	if err != nil {
		return err
	}
	return c.JSON(svc)
}

func (sc *ServiceController) Store(c *fiber.Ctx) error {
	var in ServiceInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizeDTO(&in)
	utils.NormalizePtrDTO(&in)
	if err := middlewares.ValidateStruct(&in); err != nil {
		return err
	}

	db := database.GetDB(c, sc.DB)
	if err := requireCategory(c.UserContext(), db, in.CategoryID); err != nil {
		return err
	}

	svc := models.Service{Name: in.Name, CategoryID: in.CategoryID, Price: *in.Price, IsActive: true}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}
	if err := db.Create(&svc).Error; err != nil {
		return services.Persistence("create service", err)
	}
	if err := db.Preload("Category").First(&svc, svc.ID).Error; err != nil {
		return services.Persistence("reload service", err)
	}
	return c.Status(fiber.StatusCreated).JSON(svc)
}

// Update changes catalog data only; receipt lines keep their captured prices.
func (sc *ServiceController) Update(c *fiber.Ctx) error {
	var in ServicePatch
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&in)
	if err := middlewares.ValidateStruct(&in); err != nil {
		return err
	}

	svc, err := sc.find(c)
	if err != nil {
		return err
	}
	db := database.GetDB(c, sc.DB)
	if in.CategoryID != nil {
		if err := requireCategory(c.UserContext(), db, *in.CategoryID); err != nil {
			return err
		}
	}

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) > 0 {
		if err := db.Model(&models.Service{}).Where("id = ?", svc.ID).Updates(updates).Error; err != nil {
			return services.Persistence("update service", err)
		}
	}
	if err := db.Preload("Category").First(svc, svc.ID).Error; err != nil {
		return services.Persistence("reload service", err)
	}
	return c.JSON(svc)
}

// Destroy deactivates the service so it can no longer be sold.
func (sc *ServiceController) Destroy(c *fiber.Ctx) error {
	svc, err := sc.find(c)
	if err != nil {
		return err
	}
	if err := database.GetDB(c, sc.DB).Model(svc).Update("is_active", false).Error; err != nil {
		return services.Persistence("deactivate service", err)
	}
	return c.JSON(fiber.Map{"message": "Service deactivated successfully"})
}

func (sc *ServiceController) find(c *fiber.Ctx) (*models.Service, error) {
	id, err := paramID(c)
	if err != nil {
		return nil, err
	}
	var svc models.Service
	if err := database.GetDB(c, sc.DB).Preload("Category").First(&svc, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, services.NotFound("service not found")
		}
		return nil, services.Persistence("load service", err)
	}
	return &svc, nil
}

func requireCategory(ctx context.Context, db *gorm.DB, id uint) error {
	category, err := services.NewCatalog(db).FindCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return services.Validation("category %d not found", id)
	}
	return nil
}
