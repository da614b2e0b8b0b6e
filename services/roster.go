package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// RosterTeam is one registered team as returned by the roster API. The roster
// is the authority for the canonical team name and the leader contact.
type RosterTeam struct {
	TeamID      string `json:"teamId"`
	TeamName    string `json:"teamName"`
	LeaderEmail string `json:"leaderEmail"`
}

type rosterResponse struct {
	Data []RosterTeam `json:"data"`
}

type RosterService struct {
	url    string
	client *http.Client
}

func NewRosterService(url string) *RosterService {
	if url == "" {
		url = os.Getenv("TEAMS_API_URL")
	}
	return &RosterService{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the full roster.
func (s *RosterService) Fetch(ctx context.Context) ([]RosterTeam, error) {
	if s.url == "" {
		return nil, fmt.Errorf("roster API not configured (TEAMS_API_URL)")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roster request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster API returned status %d", resp.StatusCode)
	}

	var body rosterResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode roster response: %w", err)
	}

	return body.Data, nil
}

// Lookup scans the roster for teamID, case-insensitively. It returns nil when
// no registered team matches.
func (s *RosterService) Lookup(ctx context.Context, teamID string) (*RosterTeam, error) {
	teams, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(teamID))
	for i := range teams {
		if strings.ToLower(teams[i].TeamID) == needle {
			return &teams[i], nil
		}
	}
	return nil, nil
}
