package worker

import (
	"log"
	"time"

	"github.com/whisperbox/internal/repository"
)

// stale is how long past code expiry an unverified account survives before
// the janitor reclaims its username and email.
const stale = 24 * time.Hour

// CleanupWorker periodically removes unverified accounts whose verification
// window lapsed long ago
type CleanupWorker struct {
	userRepo *repository.UserRepository
	interval time.Duration
	stopChan chan struct{}
}

// NewCleanupWorker creates a new CleanupWorker
func NewCleanupWorker(userRepo *repository.UserRepository, interval time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &CleanupWorker{
		userRepo: userRepo,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the cleanup loop
func (w *CleanupWorker) Start() {
	log.Printf("Cleanup worker started with interval: %v", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopChan:
			log.Println("Cleanup worker stopped")
			return
		}
	}
}

// Stop stops the cleanup loop
func (w *CleanupWorker) Stop() {
	close(w.stopChan)
}

func (w *CleanupWorker) sweep() {
	cutoff := time.Now().Add(-stale)
	removed, err := w.userRepo.DeleteStaleUnverified(cutoff)
	if err != nil {
		log.Printf("Cleanup worker: failed to remove stale accounts: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Cleanup worker: removed %d stale unverified accounts", removed)
	}
}
