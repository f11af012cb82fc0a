package middlewares

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staffhub-backend/database"
	"staffhub-backend/database/dbtest"
	"staffhub-backend/models"
	"staffhub-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func call(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func TestErrorHandler(t *testing.T) {
	type priced struct {
		Name  string          `json:"name" validate:"required"`
		Price decimal.Decimal `json:"price" validate:"gte=0"`
	}

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "short and stout"), fiber.StatusTeapot, "short and stout"},
		{"validation", services.Validation("bad quantity"), fiber.StatusBadRequest, "bad quantity"},
		{"unknown service", &services.ServiceNotFoundError{ServiceID: 5}, fiber.StatusBadRequest, "service with id 5 not found"},
		{"not found", services.NotFound("receipt not found"), fiber.StatusNotFound, "receipt not found"},
		{"conflict", services.Conflict("taken"), fiber.StatusConflict, "taken"},
		{"unauthorized", services.Unauthorized("invalid credentials"), fiber.StatusUnauthorized, "invalid credentials"},
		{"integrity", &services.MalformedSequenceStateError{ReceiptNumber: "zz"}, fiber.StatusInternalServerError, "internal server error"},
		{"persistence", services.Persistence("save", errors.New("connection reset")), fiber.StatusInternalServerError, "internal server error"},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError, "internal server error"},
		{"struct validation", ValidateStruct(&priced{Price: decimal.NewFromInt(-1)}), fiber.StatusBadRequest, "validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(zap.NewNop())})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			status, body := call(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, body["message"])
		})
	}

	t.Run("field names", func(t *testing.T) {
		app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(zap.NewNop())})
		app.Get("/", func(c *fiber.Ctx) error { return ValidateStruct(&priced{Price: decimal.NewFromInt(-1)}) })

		_, body := call(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, map[string]any{"name": "required", "price": "gte"}, body["errors"])
	})
}

func TestAuthRequired(t *testing.T) {
	auth := Auth{Secret: []byte("secret"), TTL: time.Minute}
	app := fiber.New()
	app.Get("/me", auth.Required(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Locals(UserIDLocalsKey), "role": c.Locals(RoleLocalsKey)})
	})

	token, err := auth.Issue("u-1", "ADMIN")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	status, body := call(t, app, req)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "u-1", body["id"])
	assert.Equal(t, "ADMIN", body["role"])

	other, err := Auth{Secret: []byte("other")}.Issue("u-1", "ADMIN")
	require.NoError(t, err)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}).SignedString(auth.Secret)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: "ADMIN"}).SignedString(auth.Secret)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"wrong secret": "Bearer " + other,
		"expired":      "Bearer " + expired,
		"no subject":   "Bearer " + noSubject,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestTxCommitsAndRollsBack(t *testing.T) {
	db := dbtest.New(t)
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(zap.NewNop())})
	create := func(name string, fail bool) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if err := database.GetDB(c, db).Create(&models.Category{Name: name, IsActive: true}).Error; err != nil {
				return err
			}
			if fail {
				return services.Validation("rejected")
			}
			return c.SendStatus(fiber.StatusCreated)
		}
	}
	app.Post("/ok", Tx(db, zap.NewNop()), create("Hair", false))
	app.Post("/fail", Tx(db, zap.NewNop()), create("Nails", true))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/fail", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var names []string
	require.NoError(t, db.Model(&models.Category{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Hair"}, names)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(zap.NewNop())})
	app.Use(RequestLogger(zap.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { return services.NotFound("nothing here") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)
}

func TestRequestHashDependsOnEveryPart(t *testing.T) {
	base := requestHash("POST", "/api/receipts", []byte(`{"a":1}`), "u1")
	assert.Len(t, base, 64)
	assert.Equal(t, base, requestHash("POST", "/api/receipts", []byte(`{"a":1}`), "u1"))
	assert.NotEqual(t, base, requestHash("PUT", "/api/receipts", []byte(`{"a":1}`), "u1"))
	assert.NotEqual(t, base, requestHash("POST", "/api/receipts?x=1", []byte(`{"a":1}`), "u1"))
	assert.NotEqual(t, base, requestHash("POST", "/api/receipts", []byte(`{"a":2}`), "u1"))
	assert.NotEqual(t, base, requestHash("POST", "/api/receipts", []byte(`{"a":1}`), "u2"))
}
