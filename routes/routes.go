package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub-backend/controllers"
	"staffhub-backend/middlewares"
)

// Deps is everything the HTTP layer needs from main.
type Deps struct {
	DB                 *gorm.DB
	Log                *zap.Logger
	Auth               middlewares.Auth
	Location           *time.Location
	ReceiptMaxAttempts int
	Now                func() time.Time
}

// Register wires all HTTP routes.
func Register(app *fiber.App, d Deps) {
	health := &controllers.HealthController{DB: d.DB}
	auth := &controllers.AuthController{DB: d.DB, Auth: d.Auth}
	categories := &controllers.CategoryController{DB: d.DB}
	catalog := &controllers.ServiceController{DB: d.DB}
	receipts := &controllers.ReceiptController{
		DB:          d.DB,
		Log:         d.Log,
		Location:    d.Location,
		MaxAttempts: d.ReceiptMaxAttempts,
		Now:         d.Now,
	}

	app.Get("/healthz", health.Healthz)

	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/auth/register", auth.Register)
	api.Post("/auth/login", auth.Login)

	// Protected endpoints (JWT auth)
	protected := api.Group("", d.Auth.Required())

	// Per-request transaction for plain CRUD writes
	tx := middlewares.Tx(d.DB, d.Log)

	// Categories
	protected.Get("/categories", categories.Index)
	protected.Get("/categories/all", categories.ListAll)
	protected.Get("/categories/:id", categories.Show)
	protected.Post("/categories", tx, categories.Store)
	protected.Put("/categories/:id", tx, categories.Update)
	protected.Delete("/categories/:id", tx, categories.Destroy)

	// Services
	protected.Get("/services", catalog.Index)
	protected.Get("/services/:id", catalog.Show)
	protected.Post("/services", tx, catalog.Store)
	protected.Put("/services/:id", tx, catalog.Update)
	protected.Delete("/services/:id", tx, catalog.Destroy)

	// Receipts: creation manages its own retrying transaction, behind the idempotency guard
	protected.Post("/receipts", middlewares.Idempotency(d.DB, d.Log), receipts.CreateReceipt)
	protected.Get("/receipts", receipts.GetReceipts)
	protected.Get("/receipts/statistics", receipts.Statistics)
	protected.Get("/receipts/:id", receipts.GetReceipt)
	protected.Patch("/receipts/:id", tx, receipts.UpdateReceiptStatus)
}
