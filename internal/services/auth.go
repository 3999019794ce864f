package services

import (
	"context"
	"errors"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/internal/models"
	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Authenticate verifies a username and password. Every failure, whatever
// its cause, is reported as ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*auth.Identity, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	id := IdentityOf(&u)
	return &id, nil
}

// IdentityOf builds the session identity of a stored user.
func IdentityOf(u *models.User) auth.Identity {
	id := auth.Identity{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.DisplayName(),
		Role:     string(u.Role),
	}
	if u.Email != nil {
		id.Email = *u.Email
	}
	if u.Image != nil {
		id.Image = *u.Image
	}
	return id
}
