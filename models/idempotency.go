package models

import "time"

// IdempotencyKey stores the first completed response for a given user/key/request hash.
type IdempotencyKey struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Key            string     `json:"key" gorm:"size:128;not null;uniqueIndex:idx_idempotency_keys_user_key,priority:2"` // header value
	UserID         string     `json:"user_id" gorm:"size:36;not null;uniqueIndex:idx_idempotency_keys_user_key,priority:1"`
	RequestHash    string     `json:"request_hash" gorm:"size:64;not null"` // sha256 of method|path|body|user
	Method         string     `json:"method" gorm:"size:10"`
	Path           string     `json:"path" gorm:"size:255"`
	ResponseStatus int        `json:"response_status"` // 0 => not completed yet
	ResponseBody   []byte     `json:"-"`
	CreatedAt      time.Time  `json:"created_at" gorm:"index"`
	CompletedAt    *time.Time `json:"completed_at"`
}
