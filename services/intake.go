package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"submission-portal-api/config"
	"submission-portal-api/models"
	"submission-portal-api/utils"

	"gorm.io/gorm"
)

// MaxUploadBytes is the fast-fail ceiling applied before contacting the
// object store. It is not server-side enforcement; the store applies its own
// limits.
const MaxUploadBytes = 20 << 20 // 20 MB

// Intake failure kinds. Each maps to one fixed user-facing message; none is
// retried automatically.
var (
	ErrMissingField      = errors.New("Please fill all fields and select a file.")
	ErrUnknownTeam       = errors.New("Invalid Team ID. Please check your ID and try again.")
	ErrNameMismatch      = errors.New("Team Name does not match the registered name for this Team ID.")
	ErrAlreadySubmitted  = errors.New("This team has already submitted a project. Multiple submissions are not allowed.")
	ErrUploadFailed      = errors.New("File upload failed. Please try again.")
	ErrRecordWriteFailed = errors.New("Could not save the submission. Please try again.")
)

// IntakeRequest carries one submission attempt through the pipeline.
type IntakeRequest struct {
	TeamName   string
	TeamNumber string
	File       *multipart.FileHeader
}

// IntakeService runs the submission pipeline: presence check, roster
// validation, duplicate check, artifact upload, record insert, and a
// fire-and-forget confirmation request. Every stage before the insert is a
// hard gate that leaves no partial record behind.
type IntakeService struct {
	db      *gorm.DB
	roster  *RosterService
	storage *StorageService
	notify  *NotifyService
}

func NewIntakeService(db *gorm.DB, roster *RosterService, storage *StorageService, notify *NotifyService) *IntakeService {
	if db == nil {
		db = config.DB
	}
	return &IntakeService{db: db, roster: roster, storage: storage, notify: notify}
}

// Submit validates and persists one submission, returning the stored record.
func (s *IntakeService) Submit(ctx context.Context, req IntakeRequest) (*models.Submission, error) {
	teamName := utils.SanitizeInput(req.TeamName)
	teamNumber := utils.SanitizeInput(req.TeamNumber)

	// Stage 1: presence check
	if teamName == "" || teamNumber == "" || req.File == nil {
		return nil, ErrMissingField
	}

	// Stage 2: roster validation
	registered, err := s.roster.Lookup(ctx, teamNumber)
	if err != nil {
		return nil, fmt.Errorf("roster validation failed: %w", err)
	}
	if registered == nil {
		return nil, ErrUnknownTeam
	}
	if !strings.EqualFold(registered.TeamName, teamName) {
		return nil, ErrNameMismatch
	}

	// Stage 3: duplicate check. Not atomic with the insert below; two
	// concurrent submissions from the same team can both pass this gate
	// (known open issue, not fixed here).
	var count int64
	if err := s.db.Model(&models.Submission{}).
		Where("LOWER(team_number) = ?", strings.ToLower(teamNumber)).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordWriteFailed, err)
	}
	if count > 0 {
		return nil, ErrAlreadySubmitted
	}

	// Stage 4: artifact upload
	if req.File.Size > MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds 20 MB", ErrUploadFailed)
	}
	fileURL, err := s.storage.Upload(ctx, req.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	// Stage 5: record insert
	submission := models.Submission{
		TeamName:    teamName,
		TeamNumber:  teamNumber,
		LeaderEmail: registered.LeaderEmail,
		FileURL:     fileURL,
		FileName:    req.File.Filename,
		SubmittedAt: time.Now(),
		CreateAt:    time.Now(),
	}
	if err := s.db.Create(&submission).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordWriteFailed, err)
	}

	// Stage 6: best-effort confirmation. The record exists, so the attempt
	// already succeeded; the relay's outcome is logged only.
	if utils.ValidateEmail(registered.LeaderEmail) {
		s.notify.Dispatch(teamName, registered.LeaderEmail)
	} else {
		log.Printf("skipping confirmation for team %q: roster returned invalid leader email %q", teamName, registered.LeaderEmail)
	}

	return &submission, nil
}
