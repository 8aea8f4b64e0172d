package repository

import (
	"errors"

	"github.com/whisperbox/internal/models"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound = errors.New("message not found")
)

// MessageRepository handles message data access
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message
func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetByUserID retrieves all messages for a user, newest first
func (r *MessageRepository) GetByUserID(userID uint) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}
	return messages, nil
}

// DeleteByIDAndUserID deletes a message only if it belongs to the user.
// A missing message and a message owned by someone else are indistinguishable
// to the caller.
func (r *MessageRepository) DeleteByIDAndUserID(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Message{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
