package syncgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"eventdesk/internal/domain"
)

type httpSubmitter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSubmitter returns a submitter that POSTs sync payloads to the
// given sync endpoint with a bearer credential.
func NewHTTPSubmitter(endpoint string, client *http.Client) domain.SyncSubmitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpSubmitter{endpoint: endpoint, client: client}
}

func (s *httpSubmitter) Submit(ctx context.Context, payload *domain.SyncPayload, token string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode sync payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sync endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &domain.RemoteError{Message: rejectionMessage(resp)}
}

// rejectionMessage extracts the remote error: the structured {error}
// body when present, the raw text otherwise, and the status code as a
// last resort.
func rejectionMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(resp.Body)
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return fmt.Sprintf("sync failed with status: %d", resp.StatusCode)
}
