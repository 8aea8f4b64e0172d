package service

import (
	"errors"

	"github.com/whisperbox/internal/models"
	"github.com/whisperbox/internal/repository"
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrNotAccepting      = errors.New("recipient is not accepting messages")
	ErrMessageNotFound   = errors.New("message not found")
)

// InboxNotifier pushes a newly stored message to the owner's live feed.
// Delivery is best effort; intake never fails because of it.
type InboxNotifier interface {
	NotifyMessage(userID uint, message *models.Message)
}

// MessageService handles anonymous message intake and the owner's inbox
type MessageService struct {
	userRepo    *repository.UserRepository
	messageRepo *repository.MessageRepository
	notifier    InboxNotifier
}

// NewMessageService creates a new MessageService
func NewMessageService(
	userRepo *repository.UserRepository,
	messageRepo *repository.MessageRepository,
	notifier InboxNotifier,
) *MessageService {
	return &MessageService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

// SendRequest represents the anonymous message submission
type SendRequest struct {
	Username string `json:"username" binding:"required"`
	Content  string `json:"content" binding:"required,min=1,max=500"`
}

// AcceptanceRequest represents the acceptance flag update
type AcceptanceRequest struct {
	AcceptMessages *bool `json:"accept_messages" binding:"required"`
}

// Submit stores an anonymous message for the target user. Content is stored
// verbatim; the sender stays anonymous and is never recorded.
func (s *MessageService) Submit(req *SendRequest) (*models.Message, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	if !user.AcceptsMessages {
		return nil, ErrNotAccepting
	}

	message := &models.Message{
		UserID:  user.ID,
		Content: req.Content,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyMessage(user.ID, message)
	}

	return message, nil
}

// List returns the user's messages, newest first. No messages is an empty
// list, not an error.
func (s *MessageService) List(userID uint) ([]models.Message, error) {
	messages, err := s.messageRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// Delete removes one of the user's own messages. A message that does not
// exist and a message owned by someone else report the same error so the
// caller cannot probe another user's inbox.
func (s *MessageService) Delete(userID, messageID uint) error {
	err := s.messageRepo.DeleteByIDAndUserID(messageID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	return nil
}

// GetAcceptance returns the user's accepts-messages flag
func (s *MessageService) GetAcceptance(userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return user.AcceptsMessages, nil
}

// SetAcceptance updates the user's accepts-messages flag. Writing the
// current value again is a no-op success.
func (s *MessageService) SetAcceptance(userID uint, accept bool) (*models.User, error) {
	if err := s.userRepo.UpdateAcceptance(userID, accept); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}
