// internal/daily/service_test.go
package daily

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizpilot-core/internal/common/config"
	apperrors "bizpilot-core/internal/common/errors"
	"bizpilot-core/internal/common/logger"
	"bizpilot-core/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func intPtr(v int) *int { return &v }

func createTestService(t *testing.T, baseURL string) (*Service, *store.Collection[Record]) {
	updates := store.NewCollection[Record](store.NewMemoryMedium(), store.KeyDailyUpdates, logger.NewTestLogger(t))
	cfg := config.AnalysisConfig{BaseURL: baseURL, Timeout: 5000}
	return NewService(cfg, updates, logger.NewTestLogger(t)), updates
}

func createInput(date string, unitsSold int) UpdateInput {
	return UpdateInput{
		Date: date,
		SalesDemand: SalesDemand{
			UnitsSold:        intPtr(unitsSold),
			ProductAttention: "bestseller restock",
		},
		MarketingOutreach: MarketingOutreach{Posted: "No"},
	}
}

func fakeDailyServer(t *testing.T, status int, responseBody string, capture *[]byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/daily/analyze", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		if capture != nil {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			*capture = body
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
}

// ==========================
// Creation Tests
// ==========================

func TestService_Create_OptimisticRecord(t *testing.T) {
	svc, updates := createTestService(t, "http://unused")
	ctx := context.Background()

	rec := svc.Create(ctx, createInput("2026-08-31", 12))

	assert.NotEmpty(t, rec.ID)
	_, err := time.Parse(time.RFC3339, rec.CreatedAt)
	require.NoError(t, err)
	assert.Empty(t, rec.AISummary)

	// Stored immediately, before any analysis call.
	persisted, found := updates.FindByID(ctx, rec.ID)
	require.True(t, found)
	assert.Equal(t, rec, persisted)
	require.NotNil(t, persisted.SalesDemand.UnitsSold)
	assert.Equal(t, 12, *persisted.SalesDemand.UnitsSold)
	assert.Nil(t, persisted.SalesDemand.NewOrders)
}

// ==========================
// Analysis Tests
// ==========================

const analysisBody = `{
	"summary": "Steady demand with restock pressure.",
	"momentum_score": 72,
	"risks": ["stockout"],
	"opportunities": ["bundle offer"],
	"actions": ["reorder inventory"],
	"checklist": ["confirm supplier ETA"]
}`

func TestService_Analyze_AttachesInPlace(t *testing.T) {
	var captured []byte
	server := fakeDailyServer(t, http.StatusOK, analysisBody, &captured)
	defer server.Close()

	svc, updates := createTestService(t, server.URL)
	ctx := context.Background()

	older := svc.Create(ctx, createInput("2026-08-29", 5))
	newer := svc.Create(ctx, createInput("2026-08-30", 8))
	today := svc.Create(ctx, createInput("2026-08-31", 12))

	result, err := svc.Analyze(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 72, result.MomentumScore)

	// Summary attached without changing identity or creation time.
	persisted, found := updates.FindByID(ctx, today.ID)
	require.True(t, found)
	assert.Equal(t, today.ID, persisted.ID)
	assert.Equal(t, today.CreatedAt, persisted.CreatedAt)
	assert.Equal(t, "Steady demand with restock pressure.", persisted.AISummary)
	assert.Equal(t, []string{"reorder inventory"}, persisted.Actions)
	assert.Equal(t, []string{"confirm supplier ETA"}, persisted.Checklist)

	// Collection length and order untouched by the in-place attach.
	all := updates.LoadAll(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, older.ID, all[0].ID)
	assert.Equal(t, newer.ID, all[1].ID)
	assert.Equal(t, today.ID, all[2].ID)
}

func TestService_Analyze_HistoricalStrippedAndSorted(t *testing.T) {
	var captured []byte
	server := fakeDailyServer(t, http.StatusOK, analysisBody, &captured)
	defer server.Close()

	svc, _ := createTestService(t, server.URL)
	ctx := context.Background()

	// Created out of date order on purpose.
	svc.Create(ctx, createInput("2026-08-30", 8))
	svc.Create(ctx, createInput("2026-08-28", 3))
	today := svc.Create(ctx, createInput("2026-08-31", 12))

	_, err := svc.Analyze(ctx, today)
	require.NoError(t, err)

	var sent struct {
		Update          map[string]interface{}   `json:"update"`
		Historical      []map[string]interface{} `json:"historical"`
		PredictedDemand map[string]interface{}   `json:"predicted_demand"`
	}
	require.NoError(t, json.Unmarshal(captured, &sent))

	// The record under analysis is excluded from history.
	require.Len(t, sent.Historical, 2)
	// Ascending by date.
	assert.Equal(t, "2026-08-28", sent.Historical[0]["date"])
	assert.Equal(t, "2026-08-30", sent.Historical[1]["date"])
	// Stripped to the five sections: no internal fields leak.
	for _, h := range sent.Historical {
		assert.NotContains(t, h, "id")
		assert.NotContains(t, h, "createdAt")
		assert.NotContains(t, h, "aiSummary")
	}
	assert.NotContains(t, sent.Update, "id")
	assert.Equal(t, map[string]interface{}{}, sent.PredictedDemand)
}

func TestService_Analyze_ServiceError(t *testing.T) {
	server := fakeDailyServer(t, http.StatusBadGateway, "upstream down", nil)
	defer server.Close()

	svc, updates := createTestService(t, server.URL)
	ctx := context.Background()
	rec := svc.Create(ctx, createInput("2026-08-31", 12))

	_, err := svc.Analyze(ctx, rec)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAnalysisServiceError, apperrors.CodeOf(err))
	assert.Equal(t, "Request failed (502)", apperrors.UserMessage(err))

	// The optimistic record survives the failed analysis, unsummarized.
	persisted, found := updates.FindByID(ctx, rec.ID)
	require.True(t, found)
	assert.Empty(t, persisted.AISummary)
}

func TestService_Analyze_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	svc, _ := createTestService(t, server.URL)
	ctx := context.Background()
	rec := svc.Create(ctx, createInput("2026-08-31", 12))

	_, err := svc.Analyze(ctx, rec)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAnalysisUnreachable, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsRetryable(err))
}
