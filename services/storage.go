package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StorageService uploads project files to the external object store's
// unsigned upload endpoint and returns the durable URL.
type StorageService struct {
	endpoint string
	preset   string
	client   *http.Client
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

func NewStorageService(endpoint, preset string) *StorageService {
	if endpoint == "" {
		endpoint = os.Getenv("UPLOAD_ENDPOINT")
	}
	if preset == "" {
		preset = os.Getenv("UPLOAD_PRESET")
	}
	return &StorageService{
		endpoint: endpoint,
		preset:   preset,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Upload streams one file to the object store and returns its secure URL.
func (s *StorageService) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if s.endpoint == "" || s.preset == "" {
		return "", fmt.Errorf("object store not configured (UPLOAD_ENDPOINT/UPLOAD_PRESET)")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileHeader.Filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	if err := writer.WriteField("upload_preset", s.preset); err != nil {
		return "", err
	}
	// Unique public ID so teams with identical filenames never collide.
	publicID := fmt.Sprintf("%s_%s", uuid.New().String(), sanitizeBaseName(fileHeader.Filename))
	if err := writer.WriteField("public_id", publicID); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("object store returned status %d", resp.StatusCode)
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("object store response missing secure_url")
	}

	return result.SecureURL, nil
}

func sanitizeBaseName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
