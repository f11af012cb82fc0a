package controllers

import (
	"time"

	"staffhub-backend/database"
	"staffhub-backend/middlewares"
	"staffhub-backend/services"
	"staffhub-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReceiptStatusInput struct {
	Status string `json:"status"`
}

type ReceiptController struct {
	DB          *gorm.DB
	Log         *zap.Logger
	Location    *time.Location
	MaxAttempts int
	Now         func() time.Time
}

// CreateReceipt builds the receipt in its own transaction (it retries on number clashes),
// so this route must not run under middlewares.Tx.
func (rc *ReceiptController) CreateReceipt(c *fiber.Ctx) error {
	var in services.CreateReceiptInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizeDTO(&in)
	if err := middlewares.ValidateStruct(&in); err != nil {
		return err
	}

	assembler := services.NewReceiptAssembler(rc.DB, rc.Log, services.AssemblerOptions{
		Location:    rc.Location,
		MaxAttempts: rc.MaxAttempts,
		Now:         rc.Now,
	})
	receipt, err := assembler.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

func (rc *ReceiptController) GetReceipts(c *fiber.Ctx) error {
	page, err := services.NewReceipts(database.GetDB(c, rc.DB)).List(c.UserContext(), services.ListReceiptsQuery{
		Page:   utils.ParseIntDefault(c.Query("page"), 1),
		Limit:  utils.ParseIntDefault(c.Query("limit"), services.DefaultPageSize),
		Status: c.Query("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (rc *ReceiptController) GetReceipt(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	receipt, err := services.NewReceipts(database.GetDB(c, rc.DB)).Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(receipt)
}

func (rc *ReceiptController) UpdateReceiptStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in ReceiptStatusInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	receipt, err := services.NewReceipts(database.GetDB(c, rc.DB)).UpdateStatus(c.UserContext(), id, in.Status)
	if err != nil {
		return err
	}
	return c.JSON(receipt)
}

func (rc *ReceiptController) Statistics(c *fiber.Ctx) error {
	stats, err := services.NewStatisticsAggregator(database.GetDB(c, rc.DB), rc.Location, rc.Now).
		Compute(c.UserContext(), services.StatisticsQuery{
			StartDate: c.Query("startDate"),
			EndDate:   c.Query("endDate"),
			Status:    c.Query("status"),
		})
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
