package controllers

import (
	"staffhub-backend/database"
	"staffhub-backend/middlewares"
	"staffhub-backend/models"
	"staffhub-backend/services"
	"staffhub-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name     string `json:"name" validate:"required,max=191"`
	IsActive *bool  `json:"isActive"`
}

type CategoryPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=191"`
	IsActive *bool   `json:"isActive"`
}

type CategoryController struct {
	DB *gorm.DB
}

// Index lists active categories.
func (cc *CategoryController) Index(c *fiber.Ctx) error {
	categories, err := services.NewCatalog(database.GetDB(c, cc.DB)).ListActiveCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// ListAll includes inactive categories (admin screens).
func (cc *CategoryController) ListAll(c *fiber.Ctx) error {
	categories := []models.Category{}
	if err := database.GetDB(c, cc.DB).Order("name").Find(&categories).Error; err != nil {
		return services.Persistence("list categories", err)
	}
	return c.JSON(categories)
}

func (cc *CategoryController) Show(c *fiber.Ctx) error {
	category, err := cc.find(c)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

func (cc *CategoryController) Store(c *fiber.Ctx) error {
	var in CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizeDTO(&in)
	if err := middlewares.ValidateStruct(&in); err != nil {
		return err
	}

	category := models.Category{Name: in.Name, IsActive: true}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if err := database.GetDB(c, cc.DB).Create(&category).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return services.Conflict("a category with this name already exists")
		}
		return services.Persistence("create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (cc *CategoryController) Update(c *fiber.Ctx) error {
	var in CategoryPatch
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&in)
	if err := middlewares.ValidateStruct(&in); err != nil {
		return err
	}

	category, err := cc.find(c)
	if err != nil {
		return err
	}
	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) > 0 {
		if err := database.GetDB(c, cc.DB).Model(category).Updates(updates).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return services.Conflict("a category with this name already exists")
			}
			return services.Persistence("update category", err)
		}
		if err := database.GetDB(c, cc.DB).First(category, category.ID).Error; err != nil {
			return services.Persistence("reload category", err)
		}
	}
	return c.JSON(category)
}

// Destroy deactivates the category; rows are never removed.
func (cc *CategoryController) Destroy(c *fiber.Ctx) error {
	category, err := cc.find(c)
	if err != nil {
		return err
	}
	if err := database.GetDB(c, cc.DB).Model(category).Update("is_active", false).Error; err != nil {
		return services.Persistence("deactivate category", err)
	}
	return c.JSON(fiber.Map{"message": "Category deactivated successfully"})
}

func (cc *CategoryController) find(c *fiber.Ctx) (*models.Category, error) {
	id, err := paramID(c)
	if err != nil {
		return nil, err
	}
	category, err := services.NewCatalog(database.GetDB(c, cc.DB)).FindCategoryByID(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, services.NotFound("category not found")
	}
	return category, nil
}
