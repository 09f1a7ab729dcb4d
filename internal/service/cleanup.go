package service

import (
	"context"
	"log"
	"time"
)

const (
	// Messages are kept for ten minutes, swept every ten minutes, at most
	// a hundred rows per sweep. Deletion is best effort: the board only
	// promises ephemerality, not an exact retention window.
	cleanupInterval = 10 * time.Minute
	cleanupMaxAge   = 10 * time.Minute
	cleanupBatch    = 100
)

// CleanupWorker periodically deletes old messages, so the board stays
// ephemeral without any scheduler outside the process.
type CleanupWorker struct {
	chat     *ChatService
	interval time.Duration
	maxAge   time.Duration
	batch    int
}

func NewCleanupWorker(chat *ChatService) *CleanupWorker {
	return &CleanupWorker{
		chat:     chat,
		interval: cleanupInterval,
		maxAge:   cleanupMaxAge,
		batch:    cleanupBatch,
	}
}

// Run blocks until ctx is cancelled, sweeping on each tick. Errors are
// logged and never stop the worker.
func (w *CleanupWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *CleanupWorker) sweep(ctx context.Context) {
	deleted, err := w.chat.DeleteOlderThan(ctx, w.maxAge, w.batch)
	if err != nil {
		log.Printf("[Cleanup] sweep failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Cleanup] deleted %d old messages", deleted)
	}
}
