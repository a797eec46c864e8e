package storage

import (
	"context"
	"time"

	"pomodesk/internal/core/engine"
)

const defaultRecordTimeout = 5 * time.Second

// Recorder writes every completed session to the history database.
type Recorder struct {
	repo    *HistoryRepo
	timeout time.Duration
}

// NewRecorder returns a completion handler backed by repo.
func NewRecorder(repo *HistoryRepo) *Recorder {
	return &Recorder{repo: repo, timeout: defaultRecordTimeout}
}

// SessionCompleted implements engine.CompletionHandler.
func (recorder *Recorder) SessionCompleted(completion engine.Completion) error {
	ctx, cancel := context.WithTimeout(context.Background(), recorder.timeout)
	defer cancel()

	_, err := recorder.repo.RecordCompletion(ctx, completion)
	return err
}
