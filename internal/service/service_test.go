package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/internal/config"
	"github.com/whisperbox/internal/models"
	"github.com/whisperbox/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database, one per test so state
// never leaks between tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}))
	return db
}

type sentEmail struct {
	To       string
	Username string
	Code     string
}

// fakeSender records verification emails instead of delivering them.
type fakeSender struct {
	sent []sentEmail
	fail bool
}

func (f *fakeSender) SendVerificationEmail(_ context.Context, to, username, code string) error {
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, sentEmail{To: to, Username: username, Code: code})
	return nil
}

// fakeGenerator returns canned text for prompt generation.
type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// recordingNotifier captures live feed notifications.
type recordingNotifier struct {
	notified []uint
}

func (n *recordingNotifier) NotifyMessage(userID uint, _ *models.Message) {
	n.notified = append(n.notified, userID)
}

var testJWTConfig = config.JWTConfig{Secret: "test-secret", ExpireHours: 1}

func newAuthService(t *testing.T, db *gorm.DB, sender EmailSender) *AuthService {
	t.Helper()
	if sender == nil {
		sender = &fakeSender{}
	}
	return NewAuthService(repository.NewUserRepository(db), sender, testJWTConfig, "http://localhost:8080")
}

func newMessageService(db *gorm.DB, notifier InboxNotifier) *MessageService {
	return NewMessageService(
		repository.NewUserRepository(db),
		repository.NewMessageRepository(db),
		notifier,
	)
}
