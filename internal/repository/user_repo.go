package repository

import (
	"errors"
	"time"

	"github.com/whisperbox/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository handles user data access
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	result := r.db.Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	result := r.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByIdentifier retrieves a user by username or email
func (r *UserRepository) GetByIdentifier(identifier string) (*models.User, error) {
	var user models.User
	result := r.db.Where("username = ? OR email = ?", identifier, identifier).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// ExistsVerifiedUsername reports whether a verified user holds the username
func (r *UserRepository) ExistsVerifiedUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("username = ? AND is_verified = ?", username, true).
		Count(&count).Error
	return count > 0, err
}

// Update saves all fields of a user
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// RefreshVerification replaces the credential and pending code of an
// unverified user in place, keeping the same row
func (r *UserRepository) RefreshVerification(id uint, passwordHash, code string, expiry time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash":      passwordHash,
		"verify_code":        code,
		"verify_code_expiry": expiry,
	}).Error
}

// MarkVerified flips a user to verified
func (r *UserRepository) MarkVerified(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("is_verified", true).Error
}

// UpdateAcceptance sets the accepts-messages flag for a user
func (r *UserRepository) UpdateAcceptance(id uint, accept bool) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("accepts_messages", accept)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteStaleUnverified removes unverified users whose code expired before
// the cutoff, freeing their username and email for re-registration. An
// unverified account can still own messages, so those go first in the same
// transaction or the users delete would trip the foreign key.
func (r *UserRepository) DeleteStaleUnverified(cutoff time.Time) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.User{}).
			Where("is_verified = ? AND verify_code_expiry < ?", false, cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("user_id IN ?", ids).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	return removed, err
}
