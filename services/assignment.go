package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"submission-portal-api/config"
	"submission-portal-api/models"

	"gorm.io/gorm"
)

var (
	ErrNothingToAssign   = errors.New("no new submissions to assign")
	ErrEmptyRoster       = errors.New("no raters configured")
	ErrRatingOutOfRange  = errors.New("rating must be an integer between 1 and 10")
	ErrSubmissionMissing = errors.New("submission not found")
)

// Assignment pairs one submission with the rater it should go to.
type Assignment struct {
	SubmissionID int    `json:"submission_id"`
	Rater        string `json:"rater"`
}

// AssignmentResult reports one assignment pass to the operator.
type AssignmentResult struct {
	Planned  int `json:"planned"`
	Assigned int `json:"assigned"`
	Failed   int `json:"failed"`
}

// PlanAssignments distributes the unassigned submissions in snapshot round
// robin across the roster. The roster is first ordered ascending by current
// load over the whole snapshot, ties kept in roster declaration order, so
// repeated passes stay balanced across runs and not just within one batch.
// The snapshot must already be ordered by submission time, oldest first; the
// roster is never mutated.
func PlanAssignments(snapshot []models.Submission, roster []string) []Assignment {
	if len(roster) == 0 {
		return nil
	}

	loads := make(map[string]int, len(roster))
	var unassigned []models.Submission
	for _, sub := range snapshot {
		if sub.IsAssigned() {
			loads[*sub.AssignedRater]++
		} else {
			unassigned = append(unassigned, sub)
		}
	}
	if len(unassigned) == 0 {
		return nil
	}

	sorted := make([]string, len(roster))
	copy(sorted, roster)
	sort.SliceStable(sorted, func(i, j int) bool {
		return loads[sorted[i]] < loads[sorted[j]]
	})

	plan := make([]Assignment, 0, len(unassigned))
	for i, sub := range unassigned {
		plan = append(plan, Assignment{
			SubmissionID: sub.SubmissionID,
			Rater:        sorted[i%len(sorted)],
		})
	}
	return plan
}

// AssignmentService runs assignment passes and records ratings.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	if db == nil {
		db = config.DB
	}
	return &AssignmentService{db: db}
}

// Snapshot reads the full submission set ordered by submission time, oldest
// first. This is the order assignment walks and the dashboard displays.
func (s *AssignmentService) Snapshot() ([]models.Submission, error) {
	var submissions []models.Submission
	if err := s.db.Order("submitted_at ASC, submission_id ASC").Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}
	return submissions, nil
}

// AssignNew plans and persists assignments for every unassigned submission.
// Each update is persisted independently; partial failure is surfaced only
// through the failed count, never rolled back. An empty roster is reported
// distinctly from an empty batch so the operator knows which one to fix.
func (s *AssignmentService) AssignNew(roster []string) (*AssignmentResult, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	plan := PlanAssignments(snapshot, roster)
	if len(plan) == 0 {
		return nil, ErrNothingToAssign
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, a := range plan {
		wg.Add(1)
		go func(a Assignment) {
			defer wg.Done()
			err := s.db.Model(&models.Submission{}).
				Where("submission_id = ?", a.SubmissionID).
				Update("assigned_rater", a.Rater).Error
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(a)
	}
	wg.Wait()

	return &AssignmentResult{
		Planned:  len(plan),
		Assigned: len(plan) - failed,
		Failed:   failed,
	}, nil
}

// SaveRating records an operator-entered score for one submission. Values
// outside [1,10] are rejected without touching the store. Saving the value
// already on record is a no-op; the returned bool reports whether a write
// happened. Concurrent edits are last-write-wins.
func (s *AssignmentService) SaveRating(submissionID, rating int) (bool, error) {
	if rating < 1 || rating > 10 {
		return false, ErrRatingOutOfRange
	}

	var submission models.Submission
	if err := s.db.Where("submission_id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrSubmissionMissing
		}
		return false, fmt.Errorf("failed to load submission: %w", err)
	}

	if submission.Rating != nil && *submission.Rating == rating {
		return false, nil
	}

	if err := s.db.Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		Update("rating", rating).Error; err != nil {
		return false, fmt.Errorf("failed to save rating: %w", err)
	}
	return true, nil
}
