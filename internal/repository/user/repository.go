package user

import (
	"errors"
	"fmt"

	"github.com/unitwise/unitwise/internal/domains/user"
	"gorm.io/gorm"
)

type GormUserRepo struct {
	db *gorm.DB
}

// Create implements user.UserRepository
func (g *GormUserRepo) Create(u *user.User) error {
	entity := NewUserEntityFromDomain(u)
	if err := g.db.Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	// pick up db-generated fields
	*u = *entity.ToDomain()
	return nil
}

// GetByID implements user.UserRepository
func (g *GormUserRepo) GetByID(id string) (*user.User, error) {
	var entity UserEntity
	if err := g.db.Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return entity.ToDomain(), nil
}

// GetByEmail implements user.UserRepository
func (g *GormUserRepo) GetByEmail(email string) (*user.User, error) {
	var entity UserEntity
	if err := g.db.Where("email = ?", email).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return entity.ToDomain(), nil
}

// Update implements user.UserRepository
func (g *GormUserRepo) Update(id string, updates user.UpdateUserRequest) (*user.User, error) {
	var entity UserEntity

	if err := g.db.Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user for update: %w", err)
	}

	// Apply updates only for non-nil fields
	updateMap := make(map[string]interface{})

	if updates.DisplayName != nil {
		updateMap["display_name"] = *updates.DisplayName
	}
	if updates.PreferredUnits != nil {
		updateMap["preferred_units"] = *updates.PreferredUnits
	}

	if len(updateMap) > 0 {
		if err := g.db.Model(&entity).Updates(updateMap).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	if err := g.db.Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, fmt.Errorf("failed to get updated user: %w", err)
	}

	return entity.ToDomain(), nil
}

// EmailExists implements user.UserRepository
func (g *GormUserRepo) EmailExists(email string) (bool, error) {
	var count int64
	if err := g.db.Model(&UserEntity{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// NewGormUserRepo creates a new GORM-based user repository
func NewGormUserRepo(db *gorm.DB) user.UserRepository {
	return &GormUserRepo{db: db}
}
