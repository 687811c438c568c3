// internal/chat/responder.go
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"bizpilot-core/internal/common/config"
	apperrors "bizpilot-core/internal/common/errors"
	"bizpilot-core/internal/common/httpclient"
)

// Reply is one assistant turn.
type Reply struct {
	Content     string
	Suggestions []string
}

// Responder is the injectable response-generation strategy behind a chat
// session: one canned implementation for offline/demo use and one calling
// the real service.
type Responder interface {
	Respond(ctx context.Context, userInput string) (Reply, error)
}

const maxSuggestions = 3

var cannedResponses = []string{
	"That's an interesting business idea! Based on my analysis, I can see several opportunities in this market. Let me break down the key factors you should consider...",
	"Great question! Market analysis shows promising trends in this sector. Here are the key insights I've gathered from current market data...",
	"I'd be happy to help you develop a comprehensive business model. Let's start by identifying your value proposition and target market segments...",
	"Based on similar successful businesses, I can provide you with strategic recommendations. Here's what the data suggests...",
}

var cannedSuggestions = []string{
	"Tell me more about the target market",
	"What are the main competitors?",
	"How much funding would I need?",
	"What's the timeline to launch?",
	"Show me financial projections",
}

// CannedResponder picks a pseudo-random response from a fixed pool with up
// to three suggested follow-ups. Seeding it makes the sequence
// deterministic for tests.
type CannedResponder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewCannedResponder() *CannedResponder {
	return NewSeededCannedResponder(time.Now().UnixNano())
}

func NewSeededCannedResponder(seed int64) *CannedResponder {
	return &CannedResponder{rng: rand.New(rand.NewSource(seed))}
}

func (r *CannedResponder) Respond(ctx context.Context, userInput string) (Reply, error) {
	r.mu.Lock()
	idx := r.rng.Intn(len(cannedResponses))
	r.mu.Unlock()
	return Reply{
		Content:     cannedResponses[idx],
		Suggestions: cannedSuggestions[:maxSuggestions],
	}, nil
}

// ServiceResponder calls the chat endpoint of the analysis service.
type ServiceResponder struct {
	cfg    config.AnalysisConfig
	client *httpclient.Client
}

func NewServiceResponder(cfg config.AnalysisConfig) *ServiceResponder {
	return &ServiceResponder{
		cfg:    cfg,
		client: httpclient.NewClient(cfg.RequestTimeout()),
	}
}

func (r *ServiceResponder) Respond(ctx context.Context, userInput string) (Reply, error) {
	raw, err := json.Marshal(map[string]string{"message": userInput})
	if err != nil {
		return Reply{}, apperrors.NewChatResponderFailed(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/chat/simple", bytes.NewBuffer(raw))
	if err != nil {
		return Reply{}, apperrors.NewChatResponderFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Reply{}, apperrors.NewChatResponderFailed(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, apperrors.NewChatResponderFailed(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reply{}, apperrors.NewAnalysisServiceError(resp.StatusCode, "")
	}

	var parsed struct {
		Response    string   `json:"response"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Reply{}, apperrors.NewResponseParseFailed(err)
	}

	suggestions := parsed.Suggestions
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return Reply{Content: parsed.Response, Suggestions: suggestions}, nil
}
