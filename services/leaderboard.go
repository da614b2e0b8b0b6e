package services

import (
	"sort"

	"submission-portal-api/config"
	"submission-portal-api/models"

	"gorm.io/gorm"
)

// LeaderboardSize is how many teams each rater's board shows.
const LeaderboardSize = 5

// RaterBoard is one rater's top-rated submissions, highest rating first.
type RaterBoard struct {
	Rater   string              `json:"rater"`
	Entries []models.Submission `json:"entries"`
}

// TopRated projects the per-rater leaderboards from a snapshot. For each
// roster member it keeps the rated submissions assigned to them, orders them
// rating descending and truncates to limit. Equal ratings are ordered by
// submission time ascending (earliest first), then by ID, so the projection
// is deterministic regardless of store return order. Boards come back in
// roster order.
func TopRated(snapshot []models.Submission, roster []string, limit int) []RaterBoard {
	byRater := make(map[string][]models.Submission, len(roster))
	for _, sub := range snapshot {
		if !sub.IsAssigned() || !sub.IsRated() {
			continue
		}
		byRater[*sub.AssignedRater] = append(byRater[*sub.AssignedRater], sub)
	}

	boards := make([]RaterBoard, 0, len(roster))
	for _, rater := range roster {
		entries := byRater[rater]
		sort.SliceStable(entries, func(i, j int) bool {
			if *entries[i].Rating != *entries[j].Rating {
				return *entries[i].Rating > *entries[j].Rating
			}
			if !entries[i].SubmittedAt.Equal(entries[j].SubmittedAt) {
				return entries[i].SubmittedAt.Before(entries[j].SubmittedAt)
			}
			return entries[i].SubmissionID < entries[j].SubmissionID
		})
		if len(entries) > limit {
			entries = entries[:limit]
		}
		boards = append(boards, RaterBoard{Rater: rater, Entries: entries})
	}
	return boards
}

// LeaderboardService recomputes the projection from the store on demand; it
// owns no persistent state of its own.
type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	if db == nil {
		db = config.DB
	}
	return &LeaderboardService{db: db}
}

// Boards reads the current submission set and projects the leaderboards.
func (s *LeaderboardService) Boards(roster []string) ([]RaterBoard, error) {
	var submissions []models.Submission
	if err := s.db.Order("submitted_at ASC, submission_id ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return TopRated(submissions, roster, LeaderboardSize), nil
}
