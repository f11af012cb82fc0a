package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"staffhub-backend/database"
	"staffhub-backend/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayHeader      = "Idempotent-Replayed"
	maxKeyLen         = 128
)

// Idempotency processes Idempotency-Key for mutating HTTP methods.
// Run it AFTER Auth.Required() (the key is scoped per user) and outside any request TX.
func Idempotency(db *gorm.DB, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get(idempotencyHeader))
		if key == "" {
			return c.Next()
		}
		if len(key) > maxKeyLen {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		userID, _ := c.Locals(UserIDLocalsKey).(string)
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
		}

		path := c.OriginalURL() // includes query string
		reqHash := requestHash(method, path, c.Body(), userID)
		conn := db.WithContext(c.UserContext())

		// ---- Phase 1: claim the key or find the earlier attempt
		var existing models.IdempotencyKey
		claimed := false
		err := conn.Transaction(func(tx *gorm.DB) error {
			res := tx.Where("user_id = ? AND key = ?", userID, key).Limit(1).Find(&existing)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				return nil
			}
			rec := models.IdempotencyKey{
				Key:         key,
				UserID:      userID,
				RequestHash: reqHash,
				Method:      method,
				Path:        path,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			existing = rec
			claimed = true
			return nil
		})
		if err != nil {
			if !database.IsUniqueViolation(err) {
				log.Error("idempotency lookup failed", zap.Error(err))
				return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
			}
			// Lost the race to a concurrent request with the same key.
			if e := conn.Where("user_id = ? AND key = ?", userID, key).First(&existing).Error; e != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
			}
		}

		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if !claimed {
			if existing.ResponseStatus == 0 {
				return fiber.NewError(fiber.StatusConflict, "a request with this Idempotency-Key is still in progress")
			}
			// Completed earlier: replay without running the handler.
			c.Set(replayHeader, "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.Status(existing.ResponseStatus).Send(existing.ResponseBody)
		}

		// ---- Phase 2: run the handler once; keep the response, or release the key on failure
		if err := c.Next(); err != nil {
			releaseKey(conn, log, existing.ID)
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			releaseKey(conn, log, existing.ID)
			return nil
		}

		now := time.Now().UTC()
		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)

		// Best-effort: a failed store must not break the successful response.
		if err := conn.Model(&models.IdempotencyKey{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   blob,
				"completed_at":    &now,
			}).Error; err != nil {
			log.Warn("idempotency store failed", zap.Error(err), zap.String("key", key))
		}
		return nil
	}
}

func releaseKey(db *gorm.DB, log *zap.Logger, id uint) {
	if err := db.Delete(&models.IdempotencyKey{}, id).Error; err != nil {
		log.Warn("idempotency release failed", zap.Error(err), zap.Uint("id", id))
	}
}

// requestHash is sha256 of method|path|body|user.
func requestHash(method, path string, body []byte, userID string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	h.Write([]byte{'\n'})
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}
