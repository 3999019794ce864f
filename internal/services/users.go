package services

import (
	"context"
	"errors"
	"strings"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/internal/models"
	"github.com/diewo77/go-safety/validation"
	"gorm.io/gorm"
)

// GrantInvalidator is told when the route grants of a user change.
type GrantInvalidator interface {
	Invalidate(userID string)
}

type UserService struct {
	db     *gorm.DB
	grants GrantInvalidator
}

// NewUserService builds the service. grants may be nil.
func NewUserService(db *gorm.DB, grants GrantInvalidator) *UserService {
	return &UserService{db: db, grants: grants}
}

type CreateUserInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     string
}

// UpdateUserInput carries a partial update. Nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *string
	Username *string
	Password *string
}

// List returns every user ordered by username.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	return users, err
}

// ListMinimal returns id, username and name only, for selection widgets.
func (s *UserService) ListMinimal(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Select("id", "username", "name").Order("username ASC").Find(&users).Error
	return users, err
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Create adds a user with a bcrypt-hashed password. A taken username is ErrConflict.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	v := validation.Violations{}
	validation.Required("username", username, v)
	if in.Password == "" {
		v["password"] = "required"
	}
	if !v.Empty() {
		return nil, invalid("username and password are required", v)
	}
	validation.MaxLen("username", username, models.MaxUsernameLen, v)
	validation.MaxLenAll(map[string]string{
		"name":  strings.TrimSpace(in.Name),
		"email": strings.TrimSpace(in.Email),
	}, models.MaxNameLen, v)
	checkPassword(in.Password, v)
	if !v.Empty() {
		return nil, invalid("", v)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.ParseRole(in.Role),
		Name:         trimmedOrNil(in.Name),
		Email:        trimmedOrNil(in.Email),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
		return tx.Create(&u).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update applies a partial update. Empty name or email clear the field,
// blank usernames and passwords are ignored.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) error {
	v := validation.Violations{}
	if in.Name != nil {
		validation.MaxLen("name", strings.TrimSpace(*in.Name), models.MaxNameLen, v)
	}
	if in.Email != nil {
		validation.MaxLen("email", strings.TrimSpace(*in.Email), models.MaxNameLen, v)
	}
	if in.Username != nil {
		validation.MaxLen("username", strings.TrimSpace(*in.Username), models.MaxUsernameLen, v)
	}
	if in.Password != nil {
		checkPassword(*in.Password, v)
	}
	if !v.Empty() {
		return invalid("", v)
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = trimmedOrNil(*in.Name)
	}
	if in.Email != nil {
		updates["email"] = trimmedOrNil(*in.Email)
	}
	if in.Role != nil {
		updates["role"] = models.ParseRole(*in.Role)
	}
	if in.Username != nil {
		if username := strings.TrimSpace(*in.Username); username != "" {
			updates["username"] = username
		}
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return err
		}
		updates["password_hash"] = hash
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Select("id").First(&u, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&u).Updates(updates).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

// Delete removes a user with its route grants and clears CAPA assignments.
// actorID is the signed-in user; deleting oneself is ErrSelfDelete.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if id == "" {
		return ErrNotFound
	}
	if actorID == id {
		return ErrSelfDelete
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.RouteAccess{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Capa{}).Where("assigned_to_id = ?", id).Update("assigned_to_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrConflict
	}
	if err == nil {
		s.invalidate(id)
	}
	return err
}

// Grants lists the route grants of a user ordered by path.
func (s *UserService) Grants(ctx context.Context, userID string) ([]models.RouteAccess, error) {
	var items []models.RouteAccess
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("path ASC").Find(&items).Error
	return items, err
}

// UpsertGrant creates or updates the grant keyed by (userID, path).
// isPrefix defaults to true.
func (s *UserService) UpsertGrant(ctx context.Context, userID, path string, isPrefix *bool) (*models.RouteAccess, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, invalid("Missing path", validation.Violations{"path": "required"})
	}
	v := validation.Violations{}
	validation.MaxLen("path", path, models.MaxPathLen, v)
	if !v.Empty() {
		return nil, invalid("", v)
	}
	prefix := true
	if isPrefix != nil {
		prefix = *isPrefix
	}

	var grant models.RouteAccess
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		err := tx.Where("user_id = ? AND path = ?", userID, path).First(&grant).Error
		switch {
		case err == nil:
			grant.IsPrefix = prefix
			return tx.Model(&grant).Update("is_prefix", prefix).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			grant = models.RouteAccess{UserID: userID, Path: path, IsPrefix: prefix}
			return tx.Create(&grant).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return &grant, nil
}

// DeleteGrant removes one grant by id.
func (s *UserService) DeleteGrant(ctx context.Context, id string) error {
	var grant models.RouteAccess
	if err := s.db.WithContext(ctx).First(&grant, "id = ?", id).Error; err != nil {
		return notFound(err)
	}
	if err := s.db.WithContext(ctx).Delete(&grant).Error; err != nil {
		return err
	}
	s.invalidate(grant.UserID)
	return nil
}

func (s *UserService) invalidate(userID string) {
	if s.grants != nil {
		s.grants.Invalidate(userID)
	}
}

// checkPassword flags passwords bcrypt cannot hash.
func checkPassword(password string, v validation.Violations) {
	if len(password) > auth.MaxPasswordBytes {
		v["password"] = "too_long"
	}
}
