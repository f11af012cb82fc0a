package models

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleGeneral = "GENERAL"

	bcryptCost = 12

	// Accounts imported from the previous system store "salt:hex(pbkdf2-sha256)".
	legacyIterations = 1000
	legacyKeyLen     = 64
)

var ErrPasswordMismatch = errors.New("password mismatch")

type User struct {
	Id          string         `json:"id" gorm:"primaryKey;size:36"`
	Name        string         `json:"name" gorm:"size:191;uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"not null"`
	FirstName   string         `json:"first_name" gorm:"not null"`
	LastName    string         `json:"last_name" gorm:"not null"`
	Avatar      *string        `json:"avatar"`
	Permissions datatypes.JSON `json:"permissions"`
	Role        string         `json:"role" gorm:"size:32;not null;default:GENERAL"`
	IsActive    bool           `json:"is_active" gorm:"not null"`
	LastLogin   *time.Time     `json:"last_login"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if user.Id == "" {
		user.Id = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = RoleGeneral
	}
	return
}

func (user *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return nil
}

// ComparePassword accepts bcrypt hashes and the legacy PBKDF2 "salt:hash" format.
func (user *User) ComparePassword(password string) error {
	if salt, want, ok := strings.Cut(user.Password, ":"); ok && !strings.HasPrefix(user.Password, "$2") {
		got := hex.EncodeToString(pbkdf2.Key([]byte(password), []byte(salt), legacyIterations, legacyKeyLen, sha256.New))
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			return ErrPasswordMismatch
		}
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// LegacyPasswordHash renders a password in the PBKDF2 format of imported accounts.
func LegacyPasswordHash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), legacyIterations, legacyKeyLen, sha256.New)
	return salt + ":" + hex.EncodeToString(key)
}
