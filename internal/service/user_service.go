package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/model"
)

// UserService reads the locally-mirrored user records. Signup and role
// assignment happen in the external auth service.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a user service.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get returns a user by id.
func (s *UserService) Get(userID string) (*model.User, error) {
	var ent model.User
	if err := s.db.Where("id = ?", userID).First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &ent, nil
}

// ListCreators returns all creator users.
func (s *UserService) ListCreators() ([]model.User, error) {
	var out []model.User
	err := s.db.Where("role = ?", model.RoleCreator).Order("created_at ASC").Find(&out).Error
	return out, err
}
