package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"staffhub-backend/database"
	"staffhub-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name        string          `json:"name" validate:"required"`
	Password    string          `json:"password" validate:"required"`
	FirstName   string          `json:"first_name" validate:"required"`
	LastName    string          `json:"last_name" validate:"required"`
	Avatar      *string         `json:"avatar,omitempty"`
	Permissions json.RawMessage `json:"permissions,omitempty"`
	Role        string          `json:"role,omitempty"`
}

type LoginInput struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CredentialStore owns user accounts.
type CredentialStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db, now: time.Now}
}

// FindByName returns the active user with the given login name, or (nil, nil).
func (s *CredentialStore) FindByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("name = ? AND is_active = ?", strings.TrimSpace(name), true).First(&user).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, Persistence("load user", err)
	}
	return &user, nil
}

func (s *CredentialStore) VerifyPassword(user *models.User, password string) bool {
	return user != nil && user.ComparePassword(password) == nil
}

func (s *CredentialStore) UpdateLastLogin(ctx context.Context, userID string) error {
	now := s.now().UTC()
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("last_login", now).Error
	if err != nil {
		return Persistence("update last login", err)
	}
	return nil
}

// Register creates an active account. An existing name is a conflict.
func (s *CredentialStore) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user := models.User{
		Name:      strings.TrimSpace(in.Name),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Avatar:    in.Avatar,
		Role:      strings.TrimSpace(in.Role),
		IsActive:  true,
	}
	if user.Name == "" || in.Password == "" || user.FirstName == "" || user.LastName == "" {
		return nil, Validation("missing required fields")
	}
	if len(in.Permissions) > 0 && string(in.Permissions) != "null" {
		user.Permissions = datatypes.JSON(in.Permissions)
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, Validation("password cannot be used: %s", err.Error())
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("name = ?", user.Name).Count(&existing).Error; err != nil {
		return nil, Persistence("check user", err)
	}
	if existing > 0 {
		return nil, Conflict("user already exists")
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, Conflict("user already exists")
		}
		return nil, Persistence("create user", err)
	}
	return &user, nil
}

// Authenticate checks credentials and records the login.
func (s *CredentialStore) Authenticate(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := s.FindByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if !s.VerifyPassword(user, in.Password) {
		return nil, Unauthorized("invalid credentials")
	}
	if err := s.UpdateLastLogin(ctx, user.Id); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	user.LastLogin = &now
	return user, nil
}
