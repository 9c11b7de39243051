package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"anamnesis/internal/config"
	"anamnesis/internal/model"
)

// SummaryClient calls the external summary function that condenses a
// submitted intake into prose for the reviewing optician. When no
// endpoint is configured it degrades to a deterministic local summary,
// so the review workflow works in development without the service.
type SummaryClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewSummaryClient creates a new summary client
func NewSummaryClient(cfg *config.Config) *SummaryClient {
	return &SummaryClient{
		endpoint: cfg.SummaryURL,
		apiKey:   cfg.SummaryAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured returns true if an endpoint is set
func (c *SummaryClient) IsConfigured() bool {
	return c.endpoint != ""
}

type summaryRequest struct {
	FormTitle string          `json:"formTitle"`
	Answers   model.AnswerMap `json:"answers"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

// Summarize produces a review summary for the given intake. The call
// falls back to the local summary on any transport or decode error;
// the caller decides how to record that degradation.
func (c *SummaryClient) Summarize(ctx context.Context, intake *model.Intake) (string, error) {
	if !c.IsConfigured() {
		return c.localSummary(intake), nil
	}

	payload, err := json.Marshal(summaryRequest{
		FormTitle: intake.FormTitle,
		Answers:   intake.Answers,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("intakeId", intake.ID).Msg("summary request failed")
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		log.Warn().Int("status", resp.StatusCode).Str("intakeId", intake.ID).Msg("summary function returned error")
		return "", fmt.Errorf("summary function error %d: %s", resp.StatusCode, string(body))
	}

	var result summaryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse summary response: %w", err)
	}
	if result.Summary == "" {
		return "", fmt.Errorf("summary function returned empty summary")
	}
	return result.Summary, nil
}

// localSummary renders the answered questions as a plain bullet list,
// sorted by question ID so the output is stable.
func (c *SummaryClient) localSummary(intake *model.Intake) string {
	ids := make([]string, 0, len(intake.Answers))
	for id, v := range intake.Answers {
		if model.IsAnswered(v) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d answered questions.\n", intake.FormTitle, len(ids))
	for _, id := range ids {
		values := model.SelectedValues(intake.Answers[id])
		fmt.Fprintf(&b, "- %s: %s\n", id, strings.Join(values, ", "))
	}
	return b.String()
}
