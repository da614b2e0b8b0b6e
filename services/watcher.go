package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"submission-portal-api/config"
	"submission-portal-api/models"

	"gorm.io/gorm"
)

// SubmissionWatcher polls the store and delivers ordered snapshots of the
// full submission collection to subscribers, the way the portal's live
// dashboard consumes them. A subscriber sees its own writes arrive back
// through the channel on the next poll rather than synchronously.
type SubmissionWatcher struct {
	db       *gorm.DB
	interval time.Duration
}

func NewSubmissionWatcher(db *gorm.DB, interval time.Duration) *SubmissionWatcher {
	if db == nil {
		db = config.DB
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &SubmissionWatcher{db: db, interval: interval}
}

// Subscribe starts delivering snapshots on the returned channel: one
// immediately, then one per poll whenever the collection changed. The cancel
// function tears the subscription down and closes the channel; cancelling the
// context does the same. Sends never block; a slow consumer just skips to the
// next snapshot.
func (w *SubmissionWatcher) Subscribe(ctx context.Context) (<-chan []models.Submission, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan []models.Submission, 1)

	go func() {
		defer close(ch)

		var lastPrint string
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			snapshot, err := w.snapshot()
			if err != nil {
				log.Printf("submission watcher poll failed: %v", err)
			} else if print := fingerprint(snapshot); print != lastPrint {
				lastPrint = print
				select {
				case ch <- snapshot:
				default:
					// drop stale snapshot for slow consumer
					select {
					case <-ch:
					default:
					}
					select {
					case ch <- snapshot:
					default:
					}
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return ch, cancel
}

func (w *SubmissionWatcher) snapshot() ([]models.Submission, error) {
	var submissions []models.Submission
	if err := w.db.Order("submitted_at ASC, submission_id ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// fingerprint captures the fields the dashboard reacts to: membership,
// assignments, and ratings.
func fingerprint(snapshot []models.Submission) string {
	print := fmt.Sprintf("%d:", len(snapshot))
	for _, sub := range snapshot {
		rater := ""
		if sub.AssignedRater != nil {
			rater = *sub.AssignedRater
		}
		rating := -1
		if sub.Rating != nil {
			rating = *sub.Rating
		}
		print += fmt.Sprintf("%d/%s/%d;", sub.SubmissionID, rater, rating)
	}
	return print
}
