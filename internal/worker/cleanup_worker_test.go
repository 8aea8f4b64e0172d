package worker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whisperbox/internal/models"
	"github.com/whisperbox/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Foreign keys are switched on so the sweep runs against the same
// constraints postgres enforces.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}))
	return db
}

func seed(t *testing.T, db *gorm.DB, username string, verified bool, expiry time.Time) *models.User {
	t.Helper()
	user := &models.User{
		Username:         username,
		Email:            username + "@example.com",
		PasswordHash:     "x",
		VerifyCode:       "123456",
		VerifyCodeExpiry: expiry,
		IsVerified:       verified,
		AcceptsMessages:  true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMessage(t *testing.T, db *gorm.DB, userID uint, content string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Message{UserID: userID, Content: content}).Error)
}

func TestSweepRemovesOnlyStaleUnverified(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)

	now := time.Now()
	stale := seed(t, db, "stale", false, now.Add(-48*time.Hour))
	seed(t, db, "pending", false, now.Add(30*time.Minute))
	seed(t, db, "lapsed", false, now.Add(-time.Hour)) // expired but not yet stale
	settled := seed(t, db, "settled", true, now.Add(-48*time.Hour))

	// A stale account may have received messages while unverified; the
	// sweep must take them along instead of failing on the foreign key.
	seedMessage(t, db, stale.ID, "for stale")
	seedMessage(t, db, settled.ID, "for settled")

	w := NewCleanupWorker(userRepo, time.Hour)
	w.sweep()

	var usernames []string
	require.NoError(t, db.Model(&models.User{}).Order("username").Pluck("username", &usernames).Error)
	assert.Equal(t, []string{"lapsed", "pending", "settled"}, usernames)

	// Only the stale account's messages were reclaimed
	var contents []string
	require.NoError(t, db.Model(&models.Message{}).Pluck("content", &contents).Error)
	assert.Equal(t, []string{"for settled"}, contents)
}

func TestSweepRemovesSeveralStaleAccounts(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)

	now := time.Now()
	a := seed(t, db, "stalea", false, now.Add(-48*time.Hour))
	seed(t, db, "staleb", false, now.Add(-72*time.Hour))
	seedMessage(t, db, a.ID, "orphan")

	// One messaged account in the batch must not shield the rest
	removed, err := userRepo.DeleteStaleUnverified(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestWorkerStartStop(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)

	w := NewCleanupWorker(userRepo, 10*time.Millisecond)
	done := make(chan struct{})
	go func() {
		w.Start()
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	w.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
