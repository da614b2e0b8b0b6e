package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// NotifyService asks the email relay to send a submission confirmation.
// Dispatch is fire-and-forget: intake success is decided before (and
// regardless of) the relay's outcome.
type NotifyService struct {
	baseURL string
	client  *http.Client
}

type confirmationRequest struct {
	TeamName    string `json:"teamName"`
	LeaderEmail string `json:"leaderEmail"`
}

func NewNotifyService(baseURL string) *NotifyService {
	if baseURL == "" {
		baseURL = os.Getenv("EMAIL_SERVER_URL")
	}
	return &NotifyService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SendConfirmation posts the confirmation request to the relay and waits for
// its acknowledgement.
func (s *NotifyService) SendConfirmation(ctx context.Context, teamName, leaderEmail string) error {
	if s.baseURL == "" {
		return fmt.Errorf("email relay not configured (EMAIL_SERVER_URL)")
	}

	payload, err := json.Marshal(confirmationRequest{TeamName: teamName, LeaderEmail: leaderEmail})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/send-confirmation", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	return nil
}

// Dispatch requests the confirmation in the background. Failures are logged
// at completion and never surfaced to the submitter.
func (s *NotifyService) Dispatch(teamName, leaderEmail string) {
	go func() {
		if err := s.SendConfirmation(context.Background(), teamName, leaderEmail); err != nil {
			log.Printf("confirmation email request failed (team=%q to=%q): %v", teamName, leaderEmail, err)
		}
	}()
}
