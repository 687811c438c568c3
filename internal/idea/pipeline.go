// internal/idea/pipeline.go
package idea

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"bizpilot-core/internal/common/config"
	apperrors "bizpilot-core/internal/common/errors"
	"bizpilot-core/internal/common/httpclient"
	"bizpilot-core/internal/common/logger"
	"bizpilot-core/internal/common/metrics"
	"bizpilot-core/internal/store"
)

const analyzeEndpoint = "/ideas/analyze"

// serviceErrorBody is the optional structured error shape of non-2xx
// responses. Either field may carry the message.
type serviceErrorBody struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// Pipeline submits a wizard draft to the analysis service and persists the
// transformed result. It performs no automatic retries; the wizard lets
// the user resubmit.
type Pipeline struct {
	cfg    config.AnalysisConfig
	client *httpclient.Client
	ideas  *store.Collection[StoredIdea]
	logger logger.Logger
}

func NewPipeline(cfg config.AnalysisConfig, ideas *store.Collection[StoredIdea], log logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		client: httpclient.NewClient(cfg.RequestTimeout()),
		ideas:  ideas,
		logger: log.WithFields(map[string]interface{}{"component": "idea-pipeline"}),
	}
}

// BuildPayload snapshots the draft, dropping fields that are empty after
// trimming so the backend never has to distinguish unset from "".
func BuildPayload(form *WizardForm) RequestPayload {
	return RequestPayload{
		Title:             strings.TrimSpace(form.Title),
		Description:       strings.TrimSpace(form.Description),
		Category:          strings.TrimSpace(form.Category),
		Location:          strings.TrimSpace(form.Location),
		BudgetRange:       strings.TrimSpace(form.Budget),
		TimelineRange:     strings.TrimSpace(form.Timeline),
		TargetMarket:      strings.TrimSpace(form.TargetMarket),
		Competitors:       strings.TrimSpace(form.Competitors),
		UniqueValue:       strings.TrimSpace(form.UniqueValue),
		RevenueModel:      strings.TrimSpace(form.BusinessModel),
		AdditionalContext: strings.TrimSpace(form.VoiceInput),
	}
}

// Submit runs the full submit-transform-persist sequence and resolves with
// the stored record.
func (p *Pipeline) Submit(ctx context.Context, form *WizardForm) (*StoredIdea, error) {
	payload := BuildPayload(form)

	started := time.Now()
	resp, err := p.post(ctx, analyzeEndpoint, payload)
	metrics.AnalysisRequestDuration.WithLabelValues(analyzeEndpoint).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues(analyzeEndpoint, "unreachable").Inc()
		p.logger.Warn("analysis call failed", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.NewAnalysisUnreachable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues(analyzeEndpoint, "unreachable").Inc()
		return nil, apperrors.NewAnalysisUnreachable(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.AnalysisRequestsTotal.WithLabelValues(analyzeEndpoint, "service_error").Inc()
		msg := extractErrorMessage(body)
		p.logger.Warn("analysis service rejected submission", map[string]interface{}{
			"status":  resp.StatusCode,
			"message": msg,
		})
		return nil, apperrors.NewAnalysisServiceError(resp.StatusCode, msg)
	}

	var analysis AnalysisResponse
	if err := json.Unmarshal(body, &analysis); err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues(analyzeEndpoint, "parse_error").Inc()
		return nil, apperrors.NewResponseParseFailed(err)
	}

	stored := ToStoredIdea(&analysis, UserFields{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Category:    strings.TrimSpace(form.Category),
	})
	p.ideas.Save(ctx, stored)

	metrics.AnalysisRequestsTotal.WithLabelValues(analyzeEndpoint, "success").Inc()
	p.logger.Info("idea analyzed and stored", map[string]interface{}{
		"id":             stored.ID,
		"successScore":   stored.SuccessScore,
		"businessModels": len(stored.BusinessModels),
	})
	return &stored, nil
}

// Resolve looks up a stored idea by id, as the detail view does after a
// submission completes.
func (p *Pipeline) Resolve(ctx context.Context, id string) (*StoredIdea, error) {
	stored, found := p.ideas.FindByID(ctx, id)
	if !found {
		return nil, apperrors.NewRecordNotFound(id)
	}
	return &stored, nil
}

func (p *Pipeline) post(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewBuffer(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	}

	return p.client.Do(req)
}

// extractErrorMessage pulls a structured message from a non-2xx body,
// returning "" when the body has none.
func extractErrorMessage(body []byte) string {
	var parsed serviceErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	return parsed.Error
}
