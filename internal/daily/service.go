// internal/daily/service.go
package daily

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"time"

	"bizpilot-core/internal/common/config"
	apperrors "bizpilot-core/internal/common/errors"
	"bizpilot-core/internal/common/httpclient"
	"bizpilot-core/internal/common/logger"
	"bizpilot-core/internal/common/metrics"
	"bizpilot-core/internal/store"

	"github.com/google/uuid"
)

const analyzeEndpoint = "/daily/analyze"

// Service owns the daily-update lifecycle: optimistic local creation,
// analysis call with stripped history, and in-place summary attachment.
type Service struct {
	cfg     config.AnalysisConfig
	client  *httpclient.Client
	updates *store.Collection[Record]
	logger  logger.Logger
}

func NewService(cfg config.AnalysisConfig, updates *store.Collection[Record], log logger.Logger) *Service {
	return &Service{
		cfg:     cfg,
		client:  httpclient.NewClient(cfg.RequestTimeout()),
		updates: updates,
		logger:  log.WithFields(map[string]interface{}{"component": "daily"}),
	}
}

// Create stores a new record immediately so local history survives even if
// the analysis call never completes.
func (s *Service) Create(ctx context.Context, input UpdateInput) Record {
	rec := Record{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		UpdateInput: input,
	}
	s.updates.Save(ctx, rec)
	return rec
}

// Analyze sends rec plus every other stored update (ascending by date,
// stripped to the five sections) to the analysis service, then attaches
// the returned summary and auxiliary fields to the existing record in
// place, preserving its id and creation time.
func (s *Service) Analyze(ctx context.Context, rec Record) (*AnalysisResult, error) {
	historical := s.historicalFor(ctx, rec.ID)

	reqBody := analyzeRequest{
		Update:          rec.UpdateInput,
		Historical:      historical,
		PredictedDemand: map[string]interface{}{},
	}

	started := time.Now()
	resp, err := s.post(ctx, reqBody)
	metrics.AnalysisRequestDuration.WithLabelValues(analyzeEndpoint).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues(analyzeEndpoint, "unreachable").Inc()
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
		return nil, apperrors.NewAnalysisServiceError(resp.StatusCode, "")
	}

	var result AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.AnalysisRequestsTotal.WithLabelValues(analyzeEndpoint, "parse_error").Inc()
		return nil, apperrors.NewResponseParseFailed(err)
	}

	s.attach(ctx, rec.ID, &result)
	metrics.AnalysisRequestsTotal.WithLabelValues(analyzeEndpoint, "success").Inc()
	s.logger.Info("daily update analyzed", map[string]interface{}{
		"id":            rec.ID,
		"momentumScore": result.MomentumScore,
	})
	return &result, nil
}

// historicalFor returns every stored update except the one being analyzed,
// sorted ascending by date and stripped of internal fields.
func (s *Service) historicalFor(ctx context.Context, excludeID string) []UpdateInput {
	all := s.updates.LoadAll(ctx)
	historical := make([]UpdateInput, 0, len(all))
	for _, u := range all {
		if u.ID == excludeID {
			continue
		}
		historical = append(historical, u.UpdateInput)
	}
	sort.SliceStable(historical, func(i, j int) bool {
		return historical[i].Date < historical[j].Date
	})
	return historical
}

// attach stores the analysis result on the existing record. Identity and
// createdAt are untouched.
func (s *Service) attach(ctx context.Context, id string, result *AnalysisResult) {
	rec, found := s.updates.FindByID(ctx, id)
	if !found {
		s.logger.Warn("record vanished before summary attach", map[string]interface{}{"id": id})
		return
	}
	rec.AISummary = result.Summary
	rec.MomentumScore = result.MomentumScore
	rec.Risks = result.Risks
	rec.Opportunities = result.Opportunities
	rec.Actions = result.Actions
	rec.Checklist = result.Checklist
	s.updates.Save(ctx, rec)
}

func (s *Service) post(ctx context.Context, payload interface{}) (*http.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+analyzeEndpoint, bytes.NewBuffer(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	return s.client.Do(req)
}
